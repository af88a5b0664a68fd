package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

// RedisConfig holds the optional change log connection settings.
type RedisConfig struct {
	Enabled         bool   `env:"ENABLED" envDefault:"false"`
	Host            string `env:"HOST" envDefault:"localhost"`
	Port            string `env:"PORT" envDefault:"6379"`
	Password        string `env:"PASSWORD"`
	Database        int    `env:"DB" envDefault:"0"`
	PoolSize        int    `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns    int    `env:"MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool   `env:"TLS" envDefault:"false"`
	ConnMaxIdleTime string `env:"CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime string `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	StreamPrefix    string `env:"STREAM_PREFIX" envDefault:"coffee-store:changes"`
	StreamMaxLength int64  `env:"STREAM_MAX_LENGTH" envDefault:"10000"`
}

// GetAddr returns host:port of the Redis server.
func (r RedisConfig) GetAddr() string {
	return net.JoinHostPort(r.Host, r.Port)
}

// RealtimeConfig holds configuration of the websocket change feed.
type RealtimeConfig struct {
	// WebSocketPath is the endpoint path for change feed connections.
	WebSocketPath string `env:"WEBSOCKET_PATH" envDefault:"/ws/changes"`
	// ClientBuffer is the per-subscriber event buffer. Events beyond it are dropped.
	ClientBuffer int `env:"REALTIME_CLIENT_BUFFER" envDefault:"16"`
	// MaxReplay caps the number of stored events replayed to a new subscriber.
	MaxReplay int64 `env:"REALTIME_MAX_REPLAY" envDefault:"100"`
}

// Config holds all configuration for the coffee service.
type Config struct {
	// HTTP server
	Host string `env:"SERVER_HOST" envDefault:""`
	Port string `env:"PORT" envDefault:"5000"`

	// MongoDB credentials, used to build the Atlas URI
	DBUser      string `env:"DB_USER"`
	DBPass      string `env:"DB_PASS"`
	ClusterHost string `env:"MONGODB_CLUSTER_HOST" envDefault:"cluster0.zkpltdq.mongodb.net"`
	AppName     string `env:"MONGODB_APP_NAME" envDefault:"Cluster0"`
	// MongoDBURI replaces the built URI when set
	MongoDBURI     string        `env:"MONGODB_URI"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"30s"`

	DatabaseName     string `env:"DATABASE_NAME" envDefault:"coffeeDB"`
	CoffeeCollection string `env:"COFFEE_COLLECTION" envDefault:"coffee"`
	UsersCollection  string `env:"USERS_COLLECTION" envDefault:"users"`

	Redis    RedisConfig `envPrefix:"REDIS_"`
	Realtime RealtimeConfig
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a Config pointing at a local MongoDB, for development and tests.
func DefaultConfig() *Config {
	return &Config{
		Port:             "5000",
		MongoDBURI:       "mongodb://localhost:27017",
		ClusterHost:      "cluster0.zkpltdq.mongodb.net",
		AppName:          "Cluster0",
		ConnectTimeout:   30 * time.Second,
		DatabaseName:     "coffeeDB",
		CoffeeCollection: "coffee",
		UsersCollection:  "users",
		Redis: RedisConfig{
			Host:            "localhost",
			Port:            "6379",
			PoolSize:        10,
			MinIdleConns:    2,
			ConnMaxIdleTime: "30m",
			ConnMaxLifetime: "1h",
			StreamPrefix:    "coffee-store:changes",
			StreamMaxLength: 10000,
		},
		Realtime: RealtimeConfig{
			WebSocketPath: "/ws/changes",
			ClientBuffer:  16,
			MaxReplay:     100,
		},
	}
}

// Validate checks that a MongoDB URI can be resolved and fixes up zero values.
func (c *Config) Validate() error {
	if _, err := c.MongoURI(); err != nil {
		return err
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.DatabaseName == "" {
		return errors.New("DATABASE_NAME must not be empty")
	}
	if c.CoffeeCollection == "" || c.UsersCollection == "" {
		return errors.New("collection names must not be empty")
	}
	if c.CoffeeCollection == c.UsersCollection {
		return fmt.Errorf("coffee and users collections must differ, both are %q", c.CoffeeCollection)
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 30 * time.Second
	}
	if c.Realtime.WebSocketPath == "" {
		c.Realtime.WebSocketPath = "/ws/changes"
	}
	if c.Realtime.ClientBuffer <= 0 {
		c.Realtime.ClientBuffer = 16
	}
	if c.Realtime.MaxReplay < 0 {
		c.Realtime.MaxReplay = 0
	}
	return nil
}

// MongoURI returns MONGODB_URI when set, otherwise the Atlas SRV URI built from the
// credentials with proper escaping.
func (c *Config) MongoURI() (string, error) {
	if c.MongoDBURI != "" {
		return c.MongoDBURI, nil
	}
	if c.DBUser == "" || c.DBPass == "" {
		return "", errors.New("either MONGODB_URI or both DB_USER and DB_PASS must be set")
	}
	if c.ClusterHost == "" {
		return "", errors.New("MONGODB_CLUSTER_HOST must not be empty")
	}
	u := url.URL{
		Scheme: "mongodb+srv",
		User:   url.UserPassword(c.DBUser, c.DBPass),
		Host:   c.ClusterHost,
		Path:   "/",
	}
	if c.AppName != "" {
		u.RawQuery = url.Values{"appName": []string{c.AppName}}.Encode()
	}
	return u.String(), nil
}

// RedactedMongoURI is MongoURI with the password masked, for logging.
func (c *Config) RedactedMongoURI() string {
	uri, err := c.MongoURI()
	if err != nil {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Redacted()
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
