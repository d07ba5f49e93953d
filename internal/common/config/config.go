package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Twitch struct {
		// ClientID defaults to the id the Twitch web player uses; GQL
		// rejects requests without a recognized client.
		ClientID   string `env:"TWITCH_CLIENT_ID" envDefault:"kimne78kx3ncx6brgo4mv6wki5h1ko"`
		OAuthToken string `env:"TWITCH_OAUTH_TOKEN,required"`
		GQLURL     string `env:"TWITCH_GQL_URL" envDefault:"https://gql.twitch.tv/gql"`
	}

	Miner struct {
		// Channel is the single channel whose watch time is being credited.
		// Which channel to watch is the operator's decision, not this service's.
		Channel         string        `env:"WATCH_CHANNEL" envDefault:""`
		TickInterval    time.Duration `env:"TICK_INTERVAL" envDefault:"1m"`
		RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"30m"`
		SnapshotTTL     time.Duration `env:"SNAPSHOT_TTL" envDefault:"5m"`
	}
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		// Missing .env is fine; production sets variables directly.
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
