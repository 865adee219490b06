package config

import (
	"time"

	"github.com/spf13/pflag"
)

// WatchConfig holds configuration for the watch command.
type WatchConfig struct {
	RPCURL       string
	Pool         string
	Radius       int
	SampleTarget int
	Interval     time.Duration
	PGDSN        string
	Out          string
	LogLevel     string
}

// LoadWatch merges config file, environment variables, and flags.
func LoadWatch(cfgFile string, flags *pflag.FlagSet) (WatchConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"radius":        50,
		"sample-target": 70,
		"interval":      15 * time.Second,
		"out":           "./data/snapshots.jsonl",
		"log-level":     "info",
	})
	if err != nil {
		return WatchConfig{}, err
	}

	return WatchConfig{
		RPCURL:       v.GetString("rpc"),
		Pool:         v.GetString("pool"),
		Radius:       v.GetInt("radius"),
		SampleTarget: v.GetInt("sample-target"),
		Interval:     v.GetDuration("interval"),
		PGDSN:        v.GetString("pg-dsn"),
		Out:          v.GetString("out"),
		LogLevel:     v.GetString("log-level"),
	}, nil
}
