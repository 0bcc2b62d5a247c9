package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB         DBConfig
	Server     ServerConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Search     SearchConfig
	LLM        LLMConfig
	Generation GenerationConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port int
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggerConfig struct {
	Level string
	Env   string
}

// SearchConfig configures the web-search provider used by the fact source.
// An empty APIKey degrades the fact source to its static fallback facts.
type SearchConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// LLMConfig configures the generation provider.
type LLMConfig struct {
	Provider  string // "openai" or "ollama"
	Model     string
	APIKey    string
	ServerURL string
	Timeout   time.Duration
}

// GenerationConfig holds tunables for the batch generation loop.
type GenerationConfig struct {
	BatchSize       int
	CheckpointEvery int
	SeedFromStore   bool
	StatsTTL        time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("search.timeout", 10)
	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("llm.timeout", 60)
	viper.SetDefault("generation.batch_size", 5)
	viper.SetDefault("generation.checkpoint_every", 5)
	viper.SetDefault("generation.stats_ttl", 72*3600)
	viper.SetDefault("server.port", 8090)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
		},
		Server: ServerConfig{
			Port: viper.GetInt("server.port"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Search: SearchConfig{
			BaseURL: viper.GetString("search.base_url"),
			APIKey:  viper.GetString("search.api_key"),
			Timeout: viper.GetDuration("search.timeout") * time.Second,
		},
		LLM: LLMConfig{
			Provider:  viper.GetString("llm.provider"),
			Model:     viper.GetString("llm.model"),
			APIKey:    viper.GetString("llm.api_key"),
			ServerURL: viper.GetString("llm.server_url"),
			Timeout:   viper.GetDuration("llm.timeout") * time.Second,
		},
		Generation: GenerationConfig{
			BatchSize:       viper.GetInt("generation.batch_size"),
			CheckpointEvery: viper.GetInt("generation.checkpoint_every"),
			SeedFromStore:   viper.GetBool("generation.seed_from_store"),
			StatsTTL:        viper.GetDuration("generation.stats_ttl") * time.Second,
		},
	}

	// Override with environment variables if set
	if host := os.Getenv("DB_HOST"); host != "" {
		config.DB.Host = host
	}
	if user := os.Getenv("DB_USER"); user != "" {
		config.DB.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		config.DB.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if searchKey := os.Getenv("SEARCH_API_KEY"); searchKey != "" {
		config.Search.APIKey = searchKey
	}
	if llmKey := os.Getenv("LLM_API_KEY"); llmKey != "" {
		config.LLM.APIKey = llmKey
	}

	return config, nil
}

// GetDSN returns the go-ora style DSN used by the migrate connection.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}

// GetGodrorDSN returns the DSN used by the main godror connection.
func (c *Config) GetGodrorDSN() string {
	connectString := fmt.Sprintf("%s:%d/%s", c.DB.Host, c.DB.Port, c.DB.DBName)
	return fmt.Sprintf("user=%q password=%q connectString=%q",
		c.DB.User, c.DB.Password, connectString)
}
