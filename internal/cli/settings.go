package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Settings are the process settings of the qb binary, as opposed to a
// query builder configuration.
type Settings struct {
	LogLevel   string
	Format     string
	ServerAddr string
}

// LoadSettings reads settings with precedence environment > file >
// defaults. Environment variables use the QB_ prefix, with dots replaced
// by underscores: QB_SERVER_ADDR sets server.addr. An empty path skips the
// file.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("log_level", "warn")
	v.SetDefault("format", "text")
	v.SetDefault("server.addr", ":8080")

	v.SetEnvPrefix("QB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	s := &Settings{
		LogLevel:   v.GetString("log_level"),
		Format:     v.GetString("format"),
		ServerAddr: v.GetString("server.addr"),
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		return nil, err
	}
	if !isValidFormat(s.Format) {
		return nil, fmt.Errorf("invalid format %q: must be one of %v", s.Format, ValidFormats)
	}
	return s, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return l, nil
}
