// Package config loads process-level settings from the environment.
// Run-specific parameters come from flags and JSON config files; only the
// ambient defaults (store backend, directories, worker count) live here.
package config

import (
	"github.com/caarlos0/env/v11"
)

type Config struct {
	Store struct {
		Kind   string `env:"KIND" envDefault:"memory"`
		DBPath string `env:"DB_PATH" envDefault:"luxgen.db"`
	} `envPrefix:"STORE_"`
	Runs struct {
		Dir       string `env:"DIR" envDefault:"runs"`
		ExportDir string `env:"EXPORT_DIR" envDefault:"exports"`
	} `envPrefix:"RUNS_"`
	Workers int `env:"WORKERS" envDefault:"4"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "LUXGEN_"}); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
