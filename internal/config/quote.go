package config

import (
	"time"

	"github.com/spf13/pflag"
)

// QuoteConfig holds configuration for the quote command.
type QuoteConfig struct {
	RPCURLs    []string
	HeadTTL    time.Duration
	Pools      string
	InputSlug  string
	OutputSlug string
	Amount     string
	MaxHops    int
	MaxResults int
	Out        string
	PGDSN      string
	LogLevel   string
}

// LoadQuote merges config file, environment variables, and flags into
// QuoteConfig.
func LoadQuote(cfgFile string, flags *pflag.FlagSet) (QuoteConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return QuoteConfig{}, err
	}

	v.SetDefault("head-ttl", 3*time.Second)
	v.SetDefault("max-hops", 3)
	v.SetDefault("max-results", 3)
	v.SetDefault("log-level", "info")

	return QuoteConfig{
		RPCURLs:    getStringSlice(v, "rpc"),
		HeadTTL:    v.GetDuration("head-ttl"),
		Pools:      v.GetString("pools"),
		InputSlug:  v.GetString("input"),
		OutputSlug: v.GetString("output"),
		Amount:     v.GetString("amount"),
		MaxHops:    v.GetInt("max-hops"),
		MaxResults: v.GetInt("max-results"),
		Out:        v.GetString("out"),
		PGDSN:      v.GetString("pg-dsn"),
		LogLevel:   v.GetString("log-level"),
	}, nil
}
