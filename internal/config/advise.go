package config

import "github.com/spf13/pflag"

// AdviseConfig holds configuration for the advise command.
type AdviseConfig struct {
	RPCURL    string
	Position  string
	Threshold float64
	LogLevel  string
}

// LoadAdvise merges config file, environment variables, and flags.
func LoadAdvise(cfgFile string, flags *pflag.FlagSet) (AdviseConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"threshold": 0.1,
		"log-level": "info",
	})
	if err != nil {
		return AdviseConfig{}, err
	}

	return AdviseConfig{
		RPCURL:    v.GetString("rpc"),
		Position:  v.GetString("position"),
		Threshold: v.GetFloat64("threshold"),
		LogLevel:  v.GetString("log-level"),
	}, nil
}
