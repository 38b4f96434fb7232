package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josephgoksu/PromptWing/internal/config"
	"github.com/josephgoksu/PromptWing/types"
)

const envPrefix = "PROMPTWING"

// GlobalAppConfig holds the unmarshaled application configuration.
var GlobalAppConfig types.AppConfig

// validate is a single instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// InitConfig reads the config file and environment variables.
func InitConfig() {
	// Load .env first if present; missing is fine.
	_ = godotenv.Load()

	// Env handling must be set up before reading the config file.
	viper.SetEnvPrefix(envPrefix) // e.g., PROMPTWING_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		if dir, err := config.GetGlobalConfigDir(); err == nil {
			viper.AddConfigPath(dir) // ~/.promptwing/config.yaml
		}
		viper.AddConfigPath(".promptwing") // project-local override
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	// Defaults
	viper.SetDefault("services.active", string(config.DefaultService))
	viper.SetDefault("llm.requestTimeoutSeconds", 30)
	viper.SetDefault("llm.maxRetries", 3)
	viper.SetDefault("llm.maxClarificationRounds", 2)
	viper.SetDefault("llm.debug", false)
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.file", defaultHistoryPath())
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("prompts.templatesDir", "")

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintln(os.Stderr, "Error parsing configuration:", err)
		os.Exit(1)
	}
	if err := validate.Struct(&GlobalAppConfig); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}
}

func defaultHistoryPath() string {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return filepath.Join(".promptwing", "history.db")
	}
	return filepath.Join(dir, "history.db")
}
