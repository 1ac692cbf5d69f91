package cmd

import (
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

// BuilderConfig holds the tunables of a build run, loadable from a YAML
// file with --config, mirroring the teacher's own recast.yml settings
// file for navmesh builds.
type BuilderConfig struct {
	Levels   []float64 `yaml:"levels"`
	TileSize int       `yaml:"tile_size"`
	Epsilon  float64   `yaml:"epsilon"`
}

func loadConfig(path string) (BuilderConfig, error) {
	var cfg BuilderConfig
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
