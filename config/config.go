package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Database   Database
	JWT        JWT
	SMTP       SMTP
	Generation Generation
	Scheduler  Scheduler
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type JWT struct {
	Secret     string
	TTLMinutes int
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Generation struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxAttempts int
}

type Scheduler struct {
	// Cron specs for the two daily sweeps.
	GenerateSpec string
	ReminderSpec string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("JWT_TTL_MINUTES", 1440)
	viper.SetDefault("GENERATION_MODEL", "deepseek-chat")
	viper.SetDefault("GENERATION_MAX_ATTEMPTS", 5)
	viper.SetDefault("SCHEDULER_GENERATE_SPEC", "0 3 * * *")
	viper.SetDefault("SCHEDULER_REMINDER_SPEC", "0 18 * * *")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.JWT.Secret = viper.GetString("JWT_SECRET")
	config.JWT.TTLMinutes = viper.GetInt("JWT_TTL_MINUTES")

	config.SMTP.Host = viper.GetString("SMTP_HOST")
	config.SMTP.Port = viper.GetInt("SMTP_PORT")
	config.SMTP.Username = viper.GetString("SMTP_USERNAME")
	config.SMTP.Password = viper.GetString("SMTP_PASSWORD")
	config.SMTP.From = viper.GetString("SMTP_FROM")

	config.Generation.BaseURL = viper.GetString("GENERATION_BASE_URL")
	config.Generation.APIKey = viper.GetString("GENERATION_API_KEY")
	config.Generation.Model = viper.GetString("GENERATION_MODEL")
	config.Generation.MaxAttempts = viper.GetInt("GENERATION_MAX_ATTEMPTS")

	config.Scheduler.GenerateSpec = viper.GetString("SCHEDULER_GENERATE_SPEC")
	config.Scheduler.ReminderSpec = viper.GetString("SCHEDULER_REMINDER_SPEC")

	log.Info().Str("port", config.Server.Port).Str("db", config.Database.Name).Msg("Config loaded")
	return &config, nil
}
