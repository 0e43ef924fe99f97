package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// NewViper reads config.json from the working directory and lets
// environment variables override any key, WEB_PORT for web.port and so on.
func NewViper() *viper.Viper {
	config := viper.New()

	config.SetConfigName("config")
	config.SetConfigType("json")
	config.AddConfigPath("./")
	config.AddConfigPath("./../")
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	err := config.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal config file: %w", err))
		}
	}

	return config
}
