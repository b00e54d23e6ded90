// Package config loads the engine configuration file (girder.yaml). Zero
// values fall back to defaults after load, so partial files are fine.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"girder/pkg/clash"
	"girder/pkg/pipeline"
	"girder/pkg/synth"
)

// Config is the full girder.yaml schema.
type Config struct {
	Log    Log    `yaml:"log"`
	Engine Engine `yaml:"engine"`
	Sizing Sizing `yaml:"sizing"`
	HTTP   HTTP   `yaml:"http"`
}

// Log selects the slog level and output format.
type Log struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// Engine carries the tolerances and loop bounds, millimetres throughout.
type Engine struct {
	ToleranceMM        float64 `yaml:"tolerance_mm"`
	PlateOffsetTolMM   float64 `yaml:"plate_offset_tol_mm"`
	EccentricityTolMM  float64 `yaml:"eccentricity_tol_mm"`
	FoundationElevMM   float64 `yaml:"foundation_elev_mm"`
	FoundationGapMinMM float64 `yaml:"foundation_gap_min_mm"`
	FoundationGapMaxMM float64 `yaml:"foundation_gap_max_mm"`
	MaxIterations      int     `yaml:"max_iterations"`
	DefaultDemandKN    float64 `yaml:"default_demand_kn"`
	BoltGrade          string  `yaml:"bolt_grade"`
	PlateMaterial      string  `yaml:"plate_material"`
	Electrode          string  `yaml:"electrode"`
}

// Sizing points at the optional model artifact. Empty means formula only.
type Sizing struct {
	ModelPath string `yaml:"model_path"`
}

// HTTP configures the serve surface.
type HTTP struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:  Log{Level: "info", Format: "text"},
		HTTP: HTTP{Addr: ":8080"},
		Engine: Engine{
			MaxIterations: pipeline.DefaultMaxIterations,
		},
	}
}

// Load reads and parses a YAML config file, filling defaults for anything
// the file leaves out. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	d := Default()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = d.HTTP.Addr
	}
	if c.Engine.MaxIterations <= 0 {
		c.Engine.MaxIterations = d.Engine.MaxIterations
	}
	return c
}

// ClashConfig maps the engine section onto the detector's limits. Fields the
// file does not set stay zero and pick up the detector defaults.
func (c Config) ClashConfig() clash.Config {
	return clash.Config{
		ToleranceMM:        c.Engine.ToleranceMM,
		PlateOffsetTolMM:   c.Engine.PlateOffsetTolMM,
		EccentricityTolMM:  c.Engine.EccentricityTolMM,
		FoundationElevMM:   c.Engine.FoundationElevMM,
		FoundationGapMinMM: c.Engine.FoundationGapMinMM,
		FoundationGapMaxMM: c.Engine.FoundationGapMaxMM,
	}
}

// SynthOptions maps the engine section onto synthesis options.
func (c Config) SynthOptions() synth.Options {
	return synth.Options{
		DemandKN:         c.Engine.DefaultDemandKN,
		FoundationElevMM: c.Engine.FoundationElevMM,
		BoltGrade:        c.Engine.BoltGrade,
		PlateMaterial:    c.Engine.PlateMaterial,
		Electrode:        c.Engine.Electrode,
	}
}
