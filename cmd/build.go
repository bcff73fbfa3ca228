package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/disha-labs/intern-recommender/internal/artifact"
	"github.com/disha-labs/intern-recommender/internal/builder"
	"github.com/disha-labs/intern-recommender/internal/catalog"
	"github.com/disha-labs/intern-recommender/internal/embed"
	"github.com/disha-labs/intern-recommender/internal/logger"
	"github.com/disha-labs/intern-recommender/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var buildCmd = &cobra.Command{
	Use:   "build-index",
	Short: "Normalize the internship catalog and build the embedding index artifact",
	Run: func(cmd *cobra.Command, _ []string) {
		buildIndex(cmd)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("catalog", "c", "", "path to the internship catalog CSV")
	buildCmd.Flags().StringP("output", "o", "", "path to write the index artifact to")
	buildCmd.Flags().String("dump-normalized", "", "also write the normalized catalog as JSON to this path")

	viper.BindPFlag("catalog-file", buildCmd.Flags().Lookup("catalog"))
	viper.BindPFlag("artifact-file", buildCmd.Flags().Lookup("output"))
}

func buildIndex(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the index build",
		zap.String("version", version),
		zap.String("catalog", config.CatalogFile),
		zap.String("artifact", config.ArtifactFile),
	)

	normalizer := catalog.NewNormalizer(logger)
	result, err := normalizer.LoadCSV(config.CatalogFile)
	if err != nil {
		logger.Fatal("loading the catalog", zap.Error(err))
	}

	logger.Info("catalog normalized",
		zap.Int("listings", result.Listings.Len()),
		zap.Int("skipped", len(result.Skipped)),
	)

	if dump := cmd.Flag("dump-normalized").Value.String(); dump != "" {
		if err := result.Listings.DumpToFile(dump); err != nil {
			logger.Fatal("dumping normalized catalog", zap.Error(err))
		}
		logger.Info("normalized catalog written", zap.String("path", dump))
	}

	provider, err := newProvider(ctx, config)
	if err != nil {
		logger.Fatal("creating the embedding provider", zap.Error(err))
	}

	a, err := builder.New(provider, logger).Build(ctx, result.Listings)
	if err != nil {
		logger.Fatal("building the index", zap.Error(err))
	}

	if err := artifact.Save(config.ArtifactFile, a); err != nil {
		logger.Fatal("saving the artifact", zap.Error(err))
	}

	logger.Info("artifact written",
		zap.String("path", config.ArtifactFile),
		zap.Int("vectors", len(a.Vectors)),
	)
}

// newProvider builds the Gemini embedding provider shared by all commands.
func newProvider(ctx context.Context, config *Config) (*embed.Gemini, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	return embed.NewGemini(ctx, embed.GeminiConfig{
		APIKey:         apiKey,
		EmbeddingModel: config.Gemini.EmbeddingModel,
		TextModel:      config.Gemini.TextModel,
		Dimension:      config.Gemini.Dimension,
	})
}
