package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"go-pnr-builder/logging"
	"go-pnr-builder/passenger"
	redis "go-pnr-builder/redis"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerConfig ServerConfig `json:"server_config"`

	LogLevel       string `json:"log_level,omitempty"`
	DefaultCarrier string `json:"default_carrier,omitempty"`

	// StrictDedup keys duplicate detection on document number plus birth
	// date instead of document number alone.
	StrictDedup        bool `json:"strict_dedup,omitempty"`
	CollapseChildTitle bool `json:"collapse_child_title,omitempty"`

	StorageType         string                    `json:"storage_type"`
	RedisConfig         redis.RedisConfig         `json:"redis_config,omitempty"`
	RedisSentinelConfig redis.RedisSentinelConfig `json:"redis_sentinel_config,omitempty"`
}

func main() {
	// A .env file may override the environment, the scanner deployments
	// use one for the config path.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env file")
	}

	configPath := flag.String("config", "", "Path for the config.json to use")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		slog.Error("please provide a config path using the --config flag or CONFIG_PATH")
		os.Exit(1)
	}

	slog.Info("using config", "path", path)

	config, err := readConfigFile(path)
	if err != nil {
		slog.Error("failed to read config file", "error", err)
		os.Exit(1)
	}

	logging.InitLogger(config.LogLevel)

	slog.Info("hosting on", "host", config.ServerConfig.Host, "port", config.ServerConfig.Port)

	batchStorage, err := createBatchStorage(&config)
	if err != nil {
		slog.Error("failed to instantiate batch storage", "error", err)
		os.Exit(1)
	}

	batchConfig := passenger.DefaultBatchConfig()
	batchConfig.Strict = config.StrictDedup
	batchConfig.CollapseChildTitle = config.CollapseChildTitle

	serverState := ServerState{
		batchStorage:   batchStorage,
		batchConfig:    batchConfig,
		clock:          passenger.RealClock{},
		defaultCarrier: config.DefaultCarrier,
	}

	server, err := NewServer(&serverState, config.ServerConfig)
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("failed to listen and serve", "error", err)
		os.Exit(1)
	}
}

func readConfigFile(path string) (Config, error) {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	if err := json.Unmarshal(configBytes, &config); err != nil {
		return Config{}, err
	}

	return config, nil
}

func createBatchStorage(config *Config) (BatchStorage, error) {
	if config.StorageType == "redis" {
		slog.Info("Using redis batch storage")
		client, err := redis.NewRedisClient(&config.RedisConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisBatchStorage(client, config.RedisConfig.Namespace), nil
	}
	if config.StorageType == "redis_sentinel" {
		slog.Info("Using redis sentinel batch storage")
		client, err := redis.NewRedisSentinelClient(&config.RedisSentinelConfig)
		if err != nil {
			return nil, err
		}
		return NewRedisBatchStorage(client, config.RedisSentinelConfig.Namespace), nil
	}
	if config.StorageType == "memory" || config.StorageType == "" {
		slog.Info("Using in memory batch storage")
		return NewInMemoryBatchStorage(), nil
	}
	return nil, fmt.Errorf("%v is not a valid storage type", config.StorageType)
}
