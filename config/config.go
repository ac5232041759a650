// Package config holds the tunables for matching and candidate supply.
// Values come from defaults, an optional config file, and CGPLOCATE_*
// environment variables, in increasing order of precedence.
package config

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Debug bool

	// Matching thresholds. See the match package for how these are used.
	MinSimilarity  float64
	OccupancyGate  float64
	ConfidentMatch float64
	ScoreTolerance int
	MatchWorkers   int

	// Candidate supply.
	GCGDirectory string
	CachePath    string
	APIBaseURL   string
}

func defaultViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("debug", false)
	v.SetDefault("min-similarity", 0.85)
	v.SetDefault("occupancy-gate", 0.90)
	v.SetDefault("confident-match", 0.98)
	v.SetDefault("score-tolerance", 5)
	v.SetDefault("match-workers", 1)
	v.SetDefault("gcg-directory", "./data/gcg")
	v.SetDefault("cache-path", "./data/cgplocate.db")
	v.SetDefault("api-base-url", "https://woogles.io/api/game_service.GameMetadataService")
	return v
}

// Load reads the configuration. configFile may be empty.
func (c *Config) Load(configFile string) error {
	v := defaultViper()
	v.SetEnvPrefix("cgplocate")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("read config file")
	}

	c.Debug = v.GetBool("debug")
	c.MinSimilarity = v.GetFloat64("min-similarity")
	c.OccupancyGate = v.GetFloat64("occupancy-gate")
	c.ConfidentMatch = v.GetFloat64("confident-match")
	c.ScoreTolerance = v.GetInt("score-tolerance")
	c.MatchWorkers = v.GetInt("match-workers")
	c.GCGDirectory = v.GetString("gcg-directory")
	c.CachePath = v.GetString("cache-path")
	c.APIBaseURL = v.GetString("api-base-url")
	return nil
}

// DefaultConfig returns a config with only the defaults applied.
func DefaultConfig() *Config {
	c := &Config{}
	// Loading with no file cannot fail.
	_ = c.Load("")
	return c
}
