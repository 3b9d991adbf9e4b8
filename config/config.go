package config

import (
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type CollaboratorConfig struct {
	// Kind is "http" or "exec".
	Kind    string
	URL     string
	Binary  string
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

type VisualizerConfig struct {
	Port           int
	Collaborator   CollaboratorConfig
	CacheTTL       time.Duration
	CacheMaxCost   int64
	GraphiteHost   string
	GraphitePrefix string
	Development    bool
}

// EnvOverrides holds environment variables that take precedence over the config file.
type EnvOverrides struct {
	Port               int    `env:"VISUALIZER_PORT"`
	CollaboratorURL    string `env:"COLLABORATOR_URL"`
	CollaboratorKind   string `env:"COLLABORATOR_KIND"`
	CollaboratorBinary string `env:"COLLABORATOR_BINARY"`
	GraphiteHost       string `env:"GRAPHITE_HOST"`
}

var once sync.Once
var config *VisualizerConfig

func GetVisualizerConfig() *VisualizerConfig {
	once.Do(func() {
		var err error
		config, err = Load("./")
		if err != nil {
			log.Fatalln(err)
		}
	})

	return config
}

// Load reads config.yaml from dir, then .env from dir and the process
// environment. A missing config file or .env leaves the defaults in place.
func Load(dir string) (*VisualizerConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := godotenv.Load(dir + "/.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	c := &VisualizerConfig{}
	c.Port = v.GetInt("port")
	c.Collaborator.Kind = v.GetString("collaborator.kind")
	c.Collaborator.URL = v.GetString("collaborator.url")
	c.Collaborator.Binary = v.GetString("collaborator.binary")
	c.Collaborator.Timeout = v.GetDuration("collaborator.timeout")
	c.Collaborator.Retries = v.GetInt("collaborator.retries")
	c.Collaborator.Backoff = v.GetDuration("collaborator.backoff")
	c.CacheTTL = v.GetDuration("cache.ttl")
	c.CacheMaxCost = v.GetInt64("cache.max_cost")
	c.GraphiteHost = v.GetString("metrics.graphite_host")
	c.GraphitePrefix = v.GetString("metrics.graphite_prefix")
	c.Development = v.GetBool("log.development")

	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return nil, err
	}
	overrides.apply(c)

	if c.Collaborator.Kind != "http" && c.Collaborator.Kind != "exec" {
		return nil, errors.New("collaborator.kind must be http or exec, got " + c.Collaborator.Kind)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 9095)
	v.SetDefault("collaborator.kind", "http")
	v.SetDefault("collaborator.url", "http://localhost:5000")
	v.SetDefault("collaborator.binary", "./scheduler")
	v.SetDefault("collaborator.timeout", 10*time.Second)
	v.SetDefault("collaborator.retries", 3)
	v.SetDefault("collaborator.backoff", 200*time.Millisecond)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.max_cost", 1<<20)
	v.SetDefault("metrics.graphite_host", "")
	v.SetDefault("metrics.graphite_prefix", "sched-visualizer")
	v.SetDefault("log.development", true)
}

func (o EnvOverrides) apply(c *VisualizerConfig) {
	if o.Port != 0 {
		c.Port = o.Port
	}
	if o.CollaboratorURL != "" {
		c.Collaborator.URL = o.CollaboratorURL
	}
	if o.CollaboratorKind != "" {
		c.Collaborator.Kind = o.CollaboratorKind
	}
	if o.CollaboratorBinary != "" {
		c.Collaborator.Binary = o.CollaboratorBinary
	}
	if o.GraphiteHost != "" {
		c.GraphiteHost = o.GraphiteHost
	}
}
