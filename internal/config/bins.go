package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BinsConfig holds configuration for the bins command.
type BinsConfig struct {
	RPCURL       string
	Pool         string
	Radius       int
	MinPrice     float64
	MaxPrice     float64
	SampleTarget int
	Out          string
	LogLevel     string
}

// LoadBins merges config file, environment variables, and flags.
func LoadBins(cfgFile string, flags *pflag.FlagSet) (BinsConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"radius":        50,
		"sample-target": 70,
		"log-level":     "info",
	})
	if err != nil {
		return BinsConfig{}, err
	}

	return BinsConfig{
		RPCURL:       v.GetString("rpc"),
		Pool:         v.GetString("pool"),
		Radius:       v.GetInt("radius"),
		MinPrice:     v.GetFloat64("min-price"),
		MaxPrice:     v.GetFloat64("max-price"),
		SampleTarget: v.GetInt("sample-target"),
		Out:          v.GetString("out"),
		LogLevel:     v.GetString("log-level"),
	}, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("BINSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}
