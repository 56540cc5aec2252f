package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL        string
	ScanAPIURL    string
	ScanAPIKey    string
	PriceAPIURL   string
	PriceAssetID  string
	PriceCurrency string
	Contract      string
	Start         string
	End           string
	Mode          string
	MinBalance    float64
	ChunkSize     uint64
	Out           string
	PGDSN         string
	LogLevel      string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ANALYZER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("scan-api", "https://api.bscscan.com/api")
	v.SetDefault("price-api", "https://api.coingecko.com/api/v3")
	v.SetDefault("price-asset", "binancecoin")
	v.SetDefault("price-currency", "usd")
	v.SetDefault("mode", "profit")
	v.SetDefault("chunk-size", uint64(2000))
	v.SetDefault("out", "./data")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:        v.GetString("rpc"),
		ScanAPIURL:    v.GetString("scan-api"),
		ScanAPIKey:    v.GetString("scan-api-key"),
		PriceAPIURL:   v.GetString("price-api"),
		PriceAssetID:  v.GetString("price-asset"),
		PriceCurrency: v.GetString("price-currency"),
		Contract:      v.GetString("contract"),
		Start:         v.GetString("start"),
		End:           v.GetString("end"),
		Mode:          v.GetString("mode"),
		MinBalance:    v.GetFloat64("min-balance"),
		ChunkSize:     v.GetUint64("chunk-size"),
		Out:           v.GetString("out"),
		PGDSN:         v.GetString("pg-dsn"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// ParseTime parses a timestamp value (unix seconds or RFC3339). Empty input
// returns nil, meaning the bound is unset.
func ParseTime(input string) (*time.Time, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	if isNumeric(input) {
		seconds, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return nil, err
		}
		tm := time.Unix(seconds, 0).UTC()
		return &tm, nil
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return nil, err
	}
	tm = tm.UTC()
	return &tm, nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(input) > 0
}
