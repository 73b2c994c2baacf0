// Package plugins holds the registries of pluggable service components.
package plugins

import (
	dispatchlog "github.com/kilianp07/powerplant/core/dispatch/logging"
	"github.com/kilianp07/powerplant/core/factory"
)

var logStores = factory.NewRegistry[dispatchlog.LogStore]()

// RegisterLogStore adds a solve log store factory identified by name.
func RegisterLogStore(name string, f factory.Factory[dispatchlog.LogStore]) error {
	return logStores.Register(name, f)
}

// NewLogStore creates the solve log store described by cfg.
func NewLogStore(cfg factory.ModuleConfig) (dispatchlog.LogStore, error) {
	return logStores.Create(cfg)
}

// LogStoreTypes lists the registered log store types.
func LogStoreTypes() []string { return logStores.Names() }
