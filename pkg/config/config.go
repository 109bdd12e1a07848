package config

import (
	"fmt"
	"io"
	"time"
)

type Config struct {
	ServerURL   string
	Endpoint    string // derived stream endpoint, set by validate
	MetricsAddr string
	ConfigFile  string // file actually loaded, empty when none
	Stream      StreamConfig
	UI          UIConfig
}

type StreamConfig struct {
	MaxPoints          int
	RetryDelayMS       int
	DialTimeoutSeconds int
}

type UIConfig struct {
	Mode                  string
	LogFile               string
	StatusIntervalSeconds int
}

func (s StreamConfig) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelayMS) * time.Millisecond
}

func (s StreamConfig) DialTimeout() time.Duration {
	return time.Duration(s.DialTimeoutSeconds) * time.Second
}

func (u UIConfig) StatusInterval() time.Duration {
	return time.Duration(u.StatusIntervalSeconds) * time.Second
}

// Load builds the configuration from args, the environment and an optional
// config file, in that order of precedence. When help is requested the usage
// text is written to out and Load returns nil, nil.
func Load(args []string, out io.Writer) (*Config, error) {
	flagSource, showHelp, err := parseCLIFlags(args)
	if err != nil {
		return nil, err
	}
	if showHelp {
		printUsage(out)
		return nil, nil
	}

	env := &EnvSource{}
	path := NewConfigResolver(flagSource, env).ResolveString(KeyConfigFile, "")
	file, err := NewFileSource(path)
	if err != nil {
		return nil, err
	}

	resolver := NewConfigResolver(flagSource, env, file)

	cfg := &Config{
		ServerURL:   resolver.ResolveString(KeyServerURL, ""),
		MetricsAddr: resolver.ResolveString(KeyMetricsAddr, ""),
		ConfigFile:  file.Used(),
		Stream: StreamConfig{
			MaxPoints:          resolver.ResolveInt(KeyMaxPoints, DefaultMaxPoints),
			RetryDelayMS:       resolver.ResolveInt(KeyRetryDelayMS, DefaultRetryDelayMS),
			DialTimeoutSeconds: resolver.ResolveInt(KeyDialTimeoutSeconds, DefaultDialTimeoutSeconds),
		},
		UI: UIConfig{
			Mode:                  resolver.ResolveString(KeyUIMode, DefaultUIMode),
			LogFile:               resolver.ResolveString(KeyLogFile, DefaultLogFile),
			StatusIntervalSeconds: resolver.ResolveInt(KeyStatusIntervalSeconds, DefaultStatusIntervalSeconds),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
