package digikey

import (
	"PartHunter/internal/core"
	"PartHunter/internal/platform"
)

func New(config *Config) (platform.Distributor, error) {
	return NewAdapter(config)
}

func init() {
	core.MustRegister(core.Provider{
		Name: "digikey",
		New: func(cfg platform.Config) (platform.Distributor, error) {
			c, _ := cfg.(*Config)
			if c == nil {
				c = DefaultConfig()
			}
			return New(c)
		},
		DefaultConfig: func() platform.Config { return DefaultConfig() },
	})
}
