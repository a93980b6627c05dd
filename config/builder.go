package config

import (
	"errors"
	"flag"
	"fmt"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

type builder struct {
	configs []*Config
	err     error
}

func newBuilder() *builder {
	return &builder{configs: make([]*Config, 0, 3)}
}

// build merges the collected configs in order; earlier ones take precedence.
func (b *builder) build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	cfg := new(Config)
	for _, c := range b.configs {
		if err := mergo.Merge(cfg, c); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return cfg, cfg.validate()
}

func (b *builder) withEnv() *builder {
	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("error getting env configs: %w", err))
		return b
	}

	b.configs = append(b.configs, cfg)
	return b
}

func (b *builder) withFlags(args []string) *builder {
	cfg, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, cfg)
	return b
}

func (b *builder) withDefaults() *builder {
	b.configs = append(b.configs, defaults())
	return b
}

func parseFlags(args []string) (*Config, error) {
	cfg := new(Config)

	fs := flag.NewFlagSet("echo_posts", flag.ContinueOnError)
	fs.StringVar(&cfg.Server.Address, "a", "", "listen address host:port")
	fs.StringVar(&cfg.Server.BasePath, "base-path", "", "route prefix, e.g. /api")
	fs.StringVar(&cfg.Mongo.URI, "d", "", "MongoDB connection URI")
	fs.StringVar(&cfg.Auth.Secret, "s", "", "token signing secret")
	fs.StringVar(&cfg.Log.Level, "l", "", "log level")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}
	return cfg, nil
}
