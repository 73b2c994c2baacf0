// Package factory instantiates pluggable modules from configuration. A module
// is described by a type name and a map of raw settings; the registered
// factory decodes the settings into its own struct and returns the concrete
// implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[logging.LogStore]()
//	reg.Register("jsonl", func(conf map[string]any) (logging.LogStore, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return logging.NewJSONLStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "solves.jsonl"}})
package factory
