package config

import (
	"github.com/caarlos0/env/v11"

	config "github.com/avvvet/card-services/configs"
)

type Config struct {
	Port      string `env:"SOCKET_SERVICE_PORT,required,notEmpty"`
	JWTSecret string `env:"JWT_SECRET_KEY,required,notEmpty"`
	NatsURL   string `env:"NATS_URL"`
	NatsToken string `env:"NATS_TOKEN"`
	RateLimit int    `env:"RATE_LIMIT" envDefault:"100"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return cfg, config.EnvError(err)
	}
	return cfg, nil
}
