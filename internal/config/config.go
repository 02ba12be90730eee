package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Jira struct {
	BaseURL          string        `mapstructure:"base_url"`
	Email            string        `mapstructure:"email"`
	APIToken         string        `mapstructure:"api_token"`
	StoryPointsField string        `mapstructure:"story_points_field"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

type Config struct {
	Mode          string        `mapstructure:"mode"`
	Port          int           `mapstructure:"port"`
	StaticPath    string        `mapstructure:"static_path"`
	ReadLimit     int64         `mapstructure:"read_limit"`
	PingPeriod    time.Duration `mapstructure:"ping_period"`
	AllowedOrigin string        `mapstructure:"allowed_origin"`
	Jira          Jira          `mapstructure:"jira"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 3001)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("allowed_origin", "*")
	v.SetDefault("jira.story_points_field", "customfield_10016")
	v.SetDefault("jira.timeout", "15s")

	// credentials come from the environment, never from the yaml file
	_ = v.BindEnv("jira.base_url", "JIRA_BASE_URL")
	_ = v.BindEnv("jira.email", "JIRA_EMAIL")
	_ = v.BindEnv("jira.api_token", "JIRA_API_TOKEN")
	_ = v.BindEnv("jira.story_points_field", "JIRA_STORY_POINTS_FIELD")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
