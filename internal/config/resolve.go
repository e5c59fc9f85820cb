package config

import (
	"time"

	"github.com/spf13/pflag"
)

// ResolveTezosConfig holds configuration for the resolve-tezos command.
type ResolveTezosConfig struct {
	RPCURLs  []string
	HeadTTL  time.Duration
	In       string
	Subject  string
	Out      string
	PGDSN    string
	LogLevel string
}

// LoadResolveTezos merges config file, environment variables, and
// flags into ResolveTezosConfig.
func LoadResolveTezos(cfgFile string, flags *pflag.FlagSet) (ResolveTezosConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ResolveTezosConfig{}, err
	}

	v.SetDefault("head-ttl", 3*time.Second)
	v.SetDefault("log-level", "info")

	return ResolveTezosConfig{
		RPCURLs:  getStringSlice(v, "rpc"),
		HeadTTL:  v.GetDuration("head-ttl"),
		In:       v.GetString("in"),
		Subject:  v.GetString("subject"),
		Out:      v.GetString("out"),
		PGDSN:    v.GetString("pg-dsn"),
		LogLevel: v.GetString("log-level"),
	}, nil
}

// ResolveEVMConfig holds configuration for the resolve-evm command.
type ResolveEVMConfig struct {
	RPCURL   string
	Standard string
	In       string
	Subject  string
	Out      string
	PGDSN    string
	LogLevel string
}

// LoadResolveEVM merges config file, environment variables, and flags
// into ResolveEVMConfig.
func LoadResolveEVM(cfgFile string, flags *pflag.FlagSet) (ResolveEVMConfig, error) {
	v, err := newViper(cfgFile, flags)
	if err != nil {
		return ResolveEVMConfig{}, err
	}

	v.SetDefault("log-level", "info")

	return ResolveEVMConfig{
		RPCURL:   v.GetString("rpc"),
		Standard: v.GetString("standard"),
		In:       v.GetString("in"),
		Subject:  v.GetString("subject"),
		Out:      v.GetString("out"),
		PGDSN:    v.GetString("pg-dsn"),
		LogLevel: v.GetString("log-level"),
	}, nil
}
