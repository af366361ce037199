package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the project file.
const ConfigFileName = "semgen.yaml"

// ConfigFileNameAlt is the alternate name of the project file.
const ConfigFileNameAlt = "semgen.yml"

// envPrefix namespaces environment overrides, e.g. SEMGEN_SAMPLE_SEED.
const envPrefix = "SEMGEN_"

// flagKeys maps CLI flag names (kebab-case already normalized to
// snake_case) to config keys.
var flagKeys = map[string]string{
	"seed":        "sample.seed",
	"respondents": "sample.respondents",
	"likert_min":  "sample.likert_min",
	"likert_max":  "sample.likert_max",
	"project":     "project",
	"researcher":  "researcher",
}

// Load reads a model configuration from the given file, layering environment
// overrides and optional CLI flags on top, then applies defaults and
// validates. The returned config is ready for the engines.
func Load(path string, flags *pflag.FlagSet) (*ModelConfig, error) {
	k := koanf.New(".")

	// 1. Defaults (lowest priority).
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"sample.respondents": DefaultRespondents,
		"sample.likert_min":  DefaultLikertMin,
		"sample.likert_max":  DefaultLikertMax,
		"sample.seed":        DefaultSeed,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Project file.
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	// 3. Environment overrides: SEMGEN_SAMPLE_SEED=42 -> sample.seed. Only
	// the first underscore becomes a key separator so snake_case leaf keys
	// like likert_min survive.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment overrides: %w", err)
	}

	// 4. Flag overrides (highest priority). Only flags explicitly set count;
	// sampling shorthand flags map onto their config keys.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[key]; ok {
				return mapped, posflag.FlagVal(flags, f)
			}
			return "", nil
		}), nil); err != nil {
			return nil, fmt.Errorf("load flag overrides: %w", err)
		}
	}

	var cfg ModelConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFromDir looks for semgen.yaml or semgen.yml in dir and loads it.
// Returns nil, nil if no project file is found.
func LoadFromDir(dir string, flags *pflag.FlagSet) (*ModelConfig, error) {
	path := findConfigFile(dir)
	if path == "" {
		return nil, nil
	}
	return Load(path, flags)
}

func findConfigFile(dir string) string {
	yamlPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	ymlPath := filepath.Join(dir, ConfigFileNameAlt)
	if _, err := os.Stat(ymlPath); err == nil {
		return ymlPath
	}
	return ""
}
