package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

type Config struct {
	Port string `mapstructure:"PORT"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	QueueName      string `mapstructure:"QUEUE_NAME"`
	PollIntervalMS int    `mapstructure:"POLL_INTERVAL_MS"`

	DashboardAPIURL string `mapstructure:"DASHBOARD_API_URL"`
	DashboardAPIKey string `mapstructure:"DASHBOARD_API_KEY"`
	DashboardTeamID string `mapstructure:"DASHBOARD_TEAM_ID"`

	DiscordToken string `mapstructure:"DISCORD_TOKEN"`

	PolicyFile      string `mapstructure:"BRIDGE_POLICY_FILE"`
	MappingTTLHours int    `mapstructure:"MAPPING_TTL_HOURS"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.QueueName == "" {
		c.QueueName = "bridge:webhooks"
	}
	if c.PollIntervalMS == 0 {
		c.PollIntervalMS = 2000
	}
	if c.MappingTTLHours == 0 {
		c.MappingTTLHours = 24 * 30
	}
}

// PollInterval returns the poll interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// MappingTTL returns the thread-ticket mapping lifetime
func (c *Config) MappingTTL() time.Duration {
	return time.Duration(c.MappingTTLHours) * time.Hour
}
