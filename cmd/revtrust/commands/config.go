package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/meigma/revtrust"
)

// Configuration keys. Each can be set in the config file, as a REVTRUST_*
// environment variable or with the matching flag.
const (
	keyMaxAgeDays       = "max_age_days"
	keyRequireSignature = "require_signature"
	keyKeyring          = "keyring"
	keyPinDir           = "pin_dir"
	keyLogLevel         = "log_level"
	keyOutput           = "output"
)

const envPrefix = "REVTRUST"

type config struct {
	MaxAgeDays       uint32
	RequireSignature bool
	Keyring          string
	PinDir           string
	LogLevel         slog.Level
	Output           format
}

// addGlobalFlags registers the persistent flags and binds them to v.
func addGlobalFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.String("config", "", "config file (default $XDG_CONFIG_HOME/revtrust/config.yaml)")
	fs.Uint32("max-age-days", revtrust.DefaultMaxAgeDays, "days after which the head revision is stale")
	fs.Bool("require-signature", false, "treat unsigned head revisions as untrusted")
	fs.String("keyring", "", "armored OpenPGP keyring that signatures must verify against")
	fs.String("pin-dir", defaultPinDir(), "directory holding known-good revision pins")
	fs.String("log-level", "warn", "log level (debug, info, warn, error)")
	fs.StringP("output", "o", string(formatText), "output format (text, json, yaml)")

	bind := map[string]string{
		keyMaxAgeDays:       "max-age-days",
		keyRequireSignature: "require-signature",
		keyKeyring:          "keyring",
		keyPinDir:           "pin-dir",
		keyLogLevel:         "log-level",
		keyOutput:           "output",
	}
	for key, flag := range bind {
		_ = v.BindPFlag(key, fs.Lookup(flag))
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// readConfig loads the config file, if any, and resolves the final settings.
func readConfig(v *viper.Viper, file string) (*config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "revtrust"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &config{
		MaxAgeDays:       v.GetUint32(keyMaxAgeDays),
		RequireSignature: v.GetBool(keyRequireSignature),
		Keyring:          v.GetString(keyKeyring),
		PinDir:           v.GetString(keyPinDir),
	}
	if cfg.MaxAgeDays == 0 {
		return nil, fmt.Errorf("%s must be at least 1", keyMaxAgeDays)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(keyLogLevel))); err != nil {
		return nil, fmt.Errorf("%s: %w", keyLogLevel, err)
	}
	out, err := parseFormat(v.GetString(keyOutput))
	if err != nil {
		return nil, err
	}
	cfg.Output = out
	return cfg, nil
}

func (c *config) logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func defaultPinDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "revtrust", "pins")
}
