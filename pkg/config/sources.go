package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ConfigSource represents a source of configuration values
type ConfigSource interface {
	GetString(key string) (string, bool)
	GetInt(key string) (int, bool)
}

// EnvSource reads environment variables
type EnvSource struct{}

func (e *EnvSource) GetString(key string) (string, bool) {
	value := os.Getenv(key)
	return value, value != ""
}

func (e *EnvSource) GetInt(key string) (int, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	if i, err := strconv.Atoi(value); err == nil {
		return i, true
	}
	return 0, false
}

// FlagSource holds values set on the command line
type FlagSource struct {
	values map[string]interface{}
}

func NewFlagSource() *FlagSource {
	return &FlagSource{values: make(map[string]interface{})}
}

func (f *FlagSource) Set(key string, value interface{}) {
	f.values[key] = value
}

func (f *FlagSource) GetString(key string) (string, bool) {
	if value, exists := f.values[key]; exists {
		if str, ok := value.(string); ok && str != "" {
			return str, true
		}
	}
	return "", false
}

func (f *FlagSource) GetInt(key string) (int, bool) {
	if value, exists := f.values[key]; exists {
		if i, ok := value.(int); ok {
			return i, true
		}
	}
	return 0, false
}

// configDirName is the per-user config directory under $HOME.
const configDirName = ".load-monitor"

// FileSource reads an optional YAML config file through viper.
type FileSource struct {
	v *viper.Viper
}

// NewFileSource loads path, or when path is empty searches for config.yaml in
// ., ./config and $HOME/.load-monitor. A missing file is only an error when
// path was given explicitly.
func NewFileSource(path string) (*FileSource, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, configDirName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return &FileSource{v: v}, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return &FileSource{v: v}, nil
}

// Used returns the path of the loaded file, or "" when none was found.
func (f *FileSource) Used() string { return f.v.ConfigFileUsed() }

func (f *FileSource) GetString(key string) (string, bool) {
	name := fileKey(key)
	if !f.v.IsSet(name) {
		return "", false
	}
	s, err := cast.ToStringE(f.v.Get(name))
	if err != nil || s == "" {
		return "", false
	}
	return s, true
}

func (f *FileSource) GetInt(key string) (int, bool) {
	name := fileKey(key)
	if !f.v.IsSet(name) {
		return 0, false
	}
	i, err := cast.ToIntE(f.v.Get(name))
	if err != nil {
		return 0, false
	}
	return i, true
}

// fileKey maps MONITOR_MAX_POINTS to max_points.
func fileKey(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, "MONITOR_"))
}
