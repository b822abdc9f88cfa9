package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultSettingsFile is read from the working directory when --config is not given.
const DefaultSettingsFile = "beanio.yaml"

// envPrefix marks environment variables holding settings: BEANIO_LOG_LEVEL -> log_level.
const envPrefix = "BEANIO_"

// Settings are the options shared by all commands.
type Settings struct {
	// Mapping is the mapping file to load.
	Mapping string `koanf:"mapping"`
	// Stream selects a stream of the mapping; may be empty when it declares only one.
	Stream   string `koanf:"stream"`
	LogLevel string `koanf:"log_level"`
	// Pretty indents JSON output.
	Pretty bool `koanf:"pretty"`

	// File is the settings file that was read, if any.
	File string `koanf:"-"`
}

// LoadSettings layers defaults, the settings file, BEANIO_ environment variables and
// explicitly set flags, later sources winning.
func LoadSettings(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"mapping":   "",
		"stream":    "",
		"log_level": "warn",
		"pretty":    false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := cfgFile
	if path == "" {
		if _, err := os.Stat(DefaultSettingsFile); err == nil {
			path = DefaultSettingsFile
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading settings file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}

			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	s.File = path

	return &s, nil
}

// Level parses LogLevel.
func (s *Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s.LogLevel)
	}

	return level, nil
}

var errNoMapping = errors.New("no mapping file given, use --mapping or set mapping in " + DefaultSettingsFile)
