package config

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/juju/errors"
	"github.com/milk9111/lenstrace/prefabs"
)

func TestLoadEmbedded(t *testing.T) {
	c := qt.New(t)
	data, err := prefabs.Load(prefabs.ConfigFile)
	c.Assert(err, qt.IsNil)
	cfg, err := Parse(data, map[string]string{})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, Default())

	_, err = Load()
	c.Assert(err, qt.IsNil)
}

func TestEnvOverrides(t *testing.T) {
	c := qt.New(t)
	cfg, err := Parse([]byte("store:\n  driver: memory\n"), map[string]string{
		"LENS_STORE_DRIVER":  "sqlite",
		"LENS_STORE_PATH":    "/tmp/lens.db",
		"LENS_HISTORY_MAX":   "3",
		"LENS_VOICE_TIMEOUT": "2s",
		"LENS_LOG":           "<root>=DEBUG",
	})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Store, qt.DeepEquals, StoreConfig{Driver: StoreSQLite, Path: "/tmp/lens.db"})
	c.Assert(cfg.History.MaxEntries, qt.Equals, 3)
	c.Assert(cfg.Voice.Timeout, qt.Equals, 2*time.Second)
	c.Assert(cfg.LogConfig, qt.Equals, "<root>=DEBUG")
}

func TestPartialYAMLKeepsDefaults(t *testing.T) {
	c := qt.New(t)
	cfg, err := Parse([]byte("surface:\n  floor_z_offset: 90\n"), map[string]string{})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Surface.FloorZOffset, qt.Equals, float32(90))
	c.Assert(cfg.Surface.CeilingZOffset, qt.Equals, float32(180))
	c.Assert(cfg.Placement.ResetCooldown, qt.Equals, 0.1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"driver", func(c *Config) { c.Store.Driver = "redis" }},
		{"sqlite_path", func(c *Config) { c.Store.Driver, c.Store.Path = StoreSQLite, "" }},
		{"history", func(c *Config) { c.History.MaxEntries = 0 }},
		{"cooldown", func(c *Config) { c.Placement.ResetCooldown = -1 }},
		{"timeout", func(c *Config) { c.Voice.Timeout = 0 }},
		{"threshold", func(c *Config) { c.Surface.FloorThreshold = 1.5 }},
		{"anchor", func(c *Config) { c.Scene.Anchor = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			qt.Assert(t, errors.Is(err, errors.NotValid), qt.IsTrue, qt.Commentf("err = %v", err))
		})
	}
	qt.Assert(t, Default().Validate(), qt.IsNil)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("store: ["), map[string]string{})
	qt.Assert(t, err, qt.ErrorMatches, "config: decode: .*")
}
