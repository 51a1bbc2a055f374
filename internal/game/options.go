package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options are the player-tunable display settings, loaded from a YAML file
// next to the binary.
type Options struct {
	Tileset  int `yaml:"tileset"`
	Font     int `yaml:"font"`
	MapZoom  int `yaml:"map_zoom"`
	TextZoom int `yaml:"text_zoom"`
}

// DefaultOptions returns the settings used when no options file exists.
func DefaultOptions() Options {
	return Options{
		Tileset:  0,
		Font:     0,
		MapZoom:  1,
		TextZoom: 1,
	}
}

// LoadOptions reads options from path.  A missing file yields the defaults;
// a malformed file is an error naming the path.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("load options %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return DefaultOptions(), fmt.Errorf("load options %s: %w", path, err)
	}
	if opts.MapZoom < 1 {
		opts.MapZoom = 1
	}
	if opts.TextZoom < 1 {
		opts.TextZoom = 1
	}
	return opts, nil
}

// SaveOptions writes options to path.
func SaveOptions(path string, opts Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return fmt.Errorf("save options %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save options %s: %w", path, err)
	}
	return nil
}
