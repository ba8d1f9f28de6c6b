package runstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dd0wney/cluso-egress/pkg/metrics"
	"github.com/dd0wney/cluso-egress/pkg/validation"
)

// Driver identifiers accepted by Config.Driver.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config selects and parameterizes a run history store.
type Config struct {
	Driver          string        `yaml:"driver"`             // defaults to memory
	URL             string        `yaml:"url"`                // postgres connection URL
	MaxConns        int           `yaml:"max_conns"`          // default 25
	MinConns        int           `yaml:"min_conns"`          // default 5
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`  // default 5m
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"` // default 1m
}

func (c Config) withDefaults() Config {
	c.Driver = validation.DefaultOr(c.Driver, DriverMemory)
	c.MaxConns = validation.DefaultOrInt(c.MaxConns, 25)
	c.MinConns = validation.DefaultOrInt(c.MinConns, 5)
	c.MaxConnLifetime = validation.DefaultOrDuration(c.MaxConnLifetime, 5*time.Minute)
	c.MaxConnIdleTime = validation.DefaultOrDuration(c.MaxConnIdleTime, time.Minute)
	return c
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	cfg := c.withDefaults()
	return validation.NewConfigValidator("runstore").
		OneOf("Driver", cfg.Driver, []string{DriverMemory, DriverPostgres}).
		When(cfg.Driver == DriverPostgres, func(v *validation.ConfigValidator) {
			v.Required("URL", cfg.URL)
			v.RangeInt("MaxConns", cfg.MaxConns, 1, 100)
			v.MinInt("MinConns", cfg.MinConns, 0)
			v.MinDuration("MaxConnLifetime", cfg.MaxConnLifetime, time.Minute)
		}).
		Validate()
}

// Open constructs the store selected by cfg, instrumented against reg.
// A nil reg selects the default metrics registry.
func Open(ctx context.Context, cfg Config, reg *metrics.Registry) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case DriverMemory:
		store = NewMemoryStore()
	case DriverPostgres:
		store, err = NewPGStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown runstore driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(store, reg), nil
}
