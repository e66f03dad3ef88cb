package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/juju/errors"
	"github.com/milk9111/lenstrace/prefabs"
	"gopkg.in/yaml.v3"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	// LogConfig is a loggo config string such as "<root>=INFO;lenstrace.surface=DEBUG".
	LogConfig string          `yaml:"log" env:"LENS_LOG"`
	Placement PlacementConfig `yaml:"placement"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Voice     VoiceConfig     `yaml:"voice"`
	History   HistoryConfig   `yaml:"history"`
	Store     StoreConfig     `yaml:"store"`
	Scene     SceneNames      `yaml:"scene"`
}

type PlacementConfig struct {
	ResetCooldown   float64 `yaml:"reset_cooldown"`
	DefaultDistance float32 `yaml:"default_distance"`
}

type SurfaceConfig struct {
	RayLength      float32 `yaml:"ray_length"`
	FloorThreshold float32 `yaml:"floor_threshold"`
	FloorZOffset   float32 `yaml:"floor_z_offset"`
	CeilingZOffset float32 `yaml:"ceiling_z_offset"`
}

type VoiceConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"LENS_VOICE_TIMEOUT"`
	Script  string        `yaml:"script"`
}

type HistoryConfig struct {
	MaxEntries int `yaml:"max_entries" env:"LENS_HISTORY_MAX"`
}

type StoreConfig struct {
	Driver string `yaml:"driver" env:"LENS_STORE_DRIVER"`
	Path   string `yaml:"path" env:"LENS_STORE_PATH"`
}

// SceneNames maps roles to node names in the scene layout.
type SceneNames struct {
	Camera          string `yaml:"camera"`
	Anchor          string `yaml:"anchor"`
	AnchorImage     string `yaml:"anchor_image"`
	PlaceButton     string `yaml:"place_button"`
	ConfirmButton   string `yaml:"confirm_button"`
	ResetButton     string `yaml:"reset_button"`
	TutorialRoot    string `yaml:"tutorial_root"`
	TutorialNav     string `yaml:"tutorial_nav"`
	ProjectionGuide string `yaml:"projection_guide"`
	GuideBackground string `yaml:"guide_background"`
}

func Default() Config {
	return Config{
		LogConfig: "<root>=INFO",
		Placement: PlacementConfig{ResetCooldown: 0.1, DefaultDistance: 1.5},
		Surface: SurfaceConfig{
			RayLength:      1000,
			FloorThreshold: 0.9,
			CeilingZOffset: 180,
		},
		Voice:   VoiceConfig{Timeout: 10 * time.Second, Script: prefabs.VoiceScript},
		History: HistoryConfig{MaxEntries: 10},
		Store:   StoreConfig{Driver: StoreMemory, Path: "lenstrace.db"},
		Scene: SceneNames{
			Camera:          "camera",
			Anchor:          "anchor",
			AnchorImage:     "anchor_image",
			PlaceButton:     "place_button",
			ConfirmButton:   "confirm_button",
			ResetButton:     "reset_button",
			TutorialRoot:    "tutorial_root",
			TutorialNav:     "tutorial_nav",
			ProjectionGuide: "projection_guide",
			GuideBackground: "guide_background",
		},
	}
}

// Load reads prefabs/lens.yaml and applies LENS_* environment overrides.
func Load() (Config, error) {
	data, err := prefabs.Load(prefabs.ConfigFile)
	if err != nil {
		return Config{}, errors.Annotatef(err, "config: read %s", prefabs.ConfigFile)
	}
	return Parse(data, nil)
}

// Parse decodes YAML over the defaults, then applies overrides from environ,
// or from the process environment when environ is nil.
func Parse(data []byte, environ map[string]string) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Annotate(err, "config: decode")
	}

	var err error
	if environ == nil {
		err = env.Parse(&cfg)
	} else {
		err = env.ParseWithOptions(&cfg, env.Options{Environment: environ})
	}
	if err != nil {
		return Config{}, errors.Annotate(err, "config: parse env")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.Path == "" {
			return errors.NotValidf("config: sqlite store without path")
		}
	default:
		return errors.NotValidf("config: store driver %q", c.Store.Driver)
	}
	if c.History.MaxEntries <= 0 {
		return errors.NotValidf("config: history max_entries %d", c.History.MaxEntries)
	}
	if c.Placement.ResetCooldown < 0 {
		return errors.NotValidf("config: negative reset_cooldown")
	}
	if c.Voice.Timeout <= 0 {
		return errors.NotValidf("config: voice timeout %v", c.Voice.Timeout)
	}
	if c.Surface.FloorThreshold <= 0 || c.Surface.FloorThreshold >= 1 {
		return errors.NotValidf("config: floor_threshold %v", c.Surface.FloorThreshold)
	}
	if c.Scene.Anchor == "" || c.Scene.Camera == "" {
		return errors.NotValidf("config: scene without anchor or camera")
	}
	return nil
}
