package cli

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treestrut/pkg/errors"
	"github.com/matzehuels/treestrut/pkg/sliceio"
	"github.com/matzehuels/treestrut/pkg/slicestore"
)

// Config is the TOML configuration accompanying a sliced scene: the
// machine description and the support settings.
//
//	[machine]
//	shape = "rectangular"
//	width = 200_000
//	depth = 200_000
//	adhesion = "brim"
//	skirt_brim_line_width = 400
//	brim_line_count = 8
//
//	[settings]
//	layer_height = 100
//	support_tree_enable = true
//	support_tree_angle = 0.7
type Config struct {
	Machine  slicestore.Machine  `toml:"machine"`
	Settings slicestore.Settings `toml:"settings"`
}

// loadConfig reads and validates a TOML config file.
func loadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "load config %s", path)
	}
	if err := cfg.Settings.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if cfg.Machine.Width <= 0 || cfg.Machine.Depth <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidMachine, "machine width and depth must be positive, got %dx%d", cfg.Machine.Width, cfg.Machine.Depth)
	}
	return &cfg, nil
}

// loadScene combines a JSON scene file and a TOML config into slice
// storage ready for generation.
func loadScene(scenePath, configPath string) (*slicestore.SliceDataStorage, *Config, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	storage, err := sliceio.ImportScene(scenePath)
	if err != nil {
		return nil, nil, err
	}
	storage.Machine = cfg.Machine
	storage.Settings = cfg.Settings
	return storage, cfg, nil
}
