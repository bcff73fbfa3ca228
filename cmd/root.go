package cmd

import (
	"log"

	"github.com/disha-labs/intern-recommender/internal/recommend"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "intern-recommender"
)

type Config struct {
	CatalogFile  string            `mapstructure:"catalog-file"`
	ArtifactFile string            `mapstructure:"artifact-file"`
	Gemini       *GeminiConfig     `mapstructure:"gemini"`
	Scoring      *recommend.Config `mapstructure:"scoring"`
	Server       *ServerConfig     `mapstructure:"server"`
}

type GeminiConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	TextModel      string `mapstructure:"text-model"`
	Dimension      int    `mapstructure:"dimension"`
}

type ServerConfig struct {
	Listen                string `mapstructure:"listen"`
	RequestTimeoutSeconds int    `mapstructure:"request-timeout-seconds"`
	Paraphrase            bool   `mapstructure:"paraphrase"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "intern-recommender builds a semantic index over internship listings and serves ranked recommendations",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is intern-recommender.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// A missing default config is fine: every knob has a default. An explicit
	// --config that fails to parse is not.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound && cfgFile == "" {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.CatalogFile == "" {
		config.CatalogFile = "internships.csv"
	}
	if config.ArtifactFile == "" {
		config.ArtifactFile = "index-artifact.json"
	}
	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}
	if config.Scoring == nil {
		scoring := recommend.DefaultConfig()
		config.Scoring = &scoring
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Server.Listen == "" {
		config.Server.Listen = ":8080"
	}

	return config, nil
}
