package plugins

import (
	"github.com/kilianp07/powerplant/config"
	dispatchlog "github.com/kilianp07/powerplant/core/dispatch/logging"
	"github.com/kilianp07/powerplant/core/factory"
)

func decodeLogging(backend string, conf map[string]any) (config.LoggingConfig, error) {
	var lc config.LoggingConfig
	if err := factory.Decode(conf, &lc); err != nil {
		return lc, err
	}
	lc.Backend = backend
	lc.SetDefaults()
	return lc, nil
}

func init() {
	_ = RegisterLogStore(config.BackendJSONL, func(conf map[string]any) (dispatchlog.LogStore, error) {
		lc, err := decodeLogging(config.BackendJSONL, conf)
		if err != nil {
			return nil, err
		}
		return dispatchlog.NewJSONLStore(lc.Path)
	})
	_ = RegisterLogStore(config.BackendJSONLRotating, func(conf map[string]any) (dispatchlog.LogStore, error) {
		lc, err := decodeLogging(config.BackendJSONLRotating, conf)
		if err != nil {
			return nil, err
		}
		return dispatchlog.NewRotatingJSONLStore(lc.Path, lc.MaxSizeMB, lc.MaxBackups, lc.MaxAgeDays)
	})
	_ = RegisterLogStore(config.BackendSQLite, func(conf map[string]any) (dispatchlog.LogStore, error) {
		lc, err := decodeLogging(config.BackendSQLite, conf)
		if err != nil {
			return nil, err
		}
		return dispatchlog.NewSQLiteStore(lc.Path)
	})
}

// LogStoreConfig converts the logging section into a module configuration.
// The "none" backend yields ok == false.
func LogStoreConfig(lc config.LoggingConfig) (cfg factory.ModuleConfig, ok bool) {
	if lc.Backend == config.BackendNone {
		return factory.ModuleConfig{}, false
	}
	return factory.ModuleConfig{
		Type: lc.Backend,
		Conf: map[string]any{
			"path":         lc.Path,
			"max_size_mb":  lc.MaxSizeMB,
			"max_backups":  lc.MaxBackups,
			"max_age_days": lc.MaxAgeDays,
		},
	}, true
}
