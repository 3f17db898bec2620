package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/screener/internal/screening"
	"github.com/spigell/screener/internal/session"
)

const (
	app       = "screener"
	envPrefix = "SCREENER"
)

type Config struct {
	APIURL    string        `mapstructure:"api-url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	TokenFile string        `mapstructure:"token-file"`
	UserAgent string        `mapstructure:"user-agent"`
	Output    string        `mapstructure:"output"`
	Store     *StoreConfig  `mapstructure:"store"`
}

type StoreConfig struct {
	// Optimistic patches collections locally before the reconciling reload.
	Optimistic bool `mapstructure:"optimistic"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "screener is a terminal client for uploading resumes, posting jobs and ranking candidates",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	viper.SetDefault("api-url", screening.DefaultAPIURL)
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("token-file", session.DefaultPath())
	viper.SetDefault("user-agent", "")
	viper.SetDefault("output", "table")
	viper.SetDefault("store.optimistic", false)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "a config file (default is screener.yaml in current directory)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.String("api-url", "", "screening API base url")
	flags.String("token-file", "", "where the session credential is kept")
	flags.StringP("output", "o", "", "output format: table or json")

	for _, name := range []string{"debug", "json", "api-url", "token-file", "output"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			log.Fatalf("binding %s flag: %v", name, err)
		}
	}
}

func initConfig() {
	// .env only fills variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %s", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Store == nil {
		config.Store = &StoreConfig{}
	}

	return config, nil
}
