package exporters

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"

	"github.com/skeinlabs/skein"
)

// Entry names one exporter and its options. Entries are applied in
// pipeline order.
type Entry struct {
	Name    string         `yaml:"exporter"`
	Options map[string]any `yaml:"options"`
}

// Config is the ordered exporter pipeline.
type Config struct {
	Exporters []Entry `yaml:"exporters"`
}

// Load reads an exporter pipeline from a YAML file, e.g.:
//
//	exporters:
//	  - exporter: console
//	    options:
//	      verbose: true
//	  - exporter: file
//	    options:
//	      dir: ./traces
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read exporter config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse exporter config: %w", err)
	}
	return cfg, nil
}

// envConfig mirrors Config for environment loading.
type envConfig struct {
	Exporters string `envconfig:"SKEIN_EXPORTERS" default:"console"`
	ExportDir string `envconfig:"SKEIN_EXPORT_DIR" default:"."`
	Verbose   bool   `envconfig:"SKEIN_VERBOSE" default:"false"`
}

// FromEnv builds a pipeline from environment variables. SKEIN_EXPORTERS
// is a comma-separated ordered list of exporter names; SKEIN_EXPORT_DIR
// and SKEIN_VERBOSE feed the file and console options respectively.
func FromEnv() (Config, error) {
	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		return Config{}, fmt.Errorf("load exporter config: %w", err)
	}

	var cfg Config
	for _, name := range strings.Split(env.Exporters, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		entry := Entry{Name: name}
		switch name {
		case "file":
			entry.Options = map[string]any{"dir": env.ExportDir}
		case "console":
			entry.Options = map[string]any{"verbose": env.Verbose}
		}
		cfg.Exporters = append(cfg.Exporters, entry)
	}
	return cfg, nil
}

// Build instantiates the configured exporters in pipeline order. An
// unknown exporter name is a configuration error.
func Build(cfg Config) ([]skein.Exporter, error) {
	exporters := make([]skein.Exporter, 0, len(cfg.Exporters))
	for _, entry := range cfg.Exporters {
		exporter, err := build(entry)
		if err != nil {
			return nil, err
		}
		exporters = append(exporters, exporter)
	}
	return exporters, nil
}

func build(entry Entry) (skein.Exporter, error) {
	switch entry.Name {
	case "console":
		var opts ConsoleOptions
		if err := decodeOptions(entry.Options, &opts); err != nil {
			return nil, fmt.Errorf("console exporter options: %w", err)
		}
		return NewConsole(opts), nil
	case "file":
		var opts FileOptions
		if err := decodeOptions(entry.Options, &opts); err != nil {
			return nil, fmt.Errorf("file exporter options: %w", err)
		}
		return NewFile(opts)
	default:
		return nil, fmt.Errorf("unknown exporter %q", entry.Name)
	}
}

// decodeOptions maps a loosely-typed options mapping onto a typed
// options struct by round-tripping through YAML.
func decodeOptions(options map[string]any, target any) error {
	if len(options) == 0 {
		return nil
	}
	data, err := yaml.Marshal(options)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, target)
}
