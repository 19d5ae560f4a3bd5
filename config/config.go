package config

import (
	"strings"

	"pojistovna/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort int

	// Connection strings for the three independent schemas. All are
	// required; startup fails when any is missing.
	DatabaseIdentityPath  string
	DatabaseInsurancePath string
	DatabaseContactPath   string

	DatabaseCacheAddress string
	DatabaseCachePort    int

	// Well-known admin address granted the admin role at startup when the
	// account already exists.
	AdminEmail string
}

func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.SetEnvPrefix("POJISTOVNA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.cache.address", "")
	viper.SetDefault("database.cache.port", 6379)
	viper.SetDefault("admin.email", "admin@admin.cz")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, log.Err("failed to read config file", err)
		}
		log.Info("No config file found, using environment and defaults")
	}

	config := Config{
		ServerPort:            viper.GetInt("server.port"),
		DatabaseIdentityPath:  viper.GetString("database.identity.path"),
		DatabaseInsurancePath: viper.GetString("database.insurance.path"),
		DatabaseContactPath:   viper.GetString("database.contact.path"),
		DatabaseCacheAddress:  viper.GetString("database.cache.address"),
		DatabaseCachePort:     viper.GetInt("database.cache.port"),
		AdminEmail:            viper.GetString("admin.email"),
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	log := logger.New("config").Function("validate")

	if c.DatabaseIdentityPath == "" {
		return log.ErrMsg("identity database path is required")
	}
	if c.DatabaseInsurancePath == "" {
		return log.ErrMsg("insurance database path is required")
	}
	if c.DatabaseContactPath == "" {
		return log.ErrMsg("contact database path is required")
	}

	return nil
}
