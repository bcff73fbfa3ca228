package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/disha-labs/intern-recommender/internal/artifact"
	"github.com/disha-labs/intern-recommender/internal/embed"
	"github.com/disha-labs/intern-recommender/internal/logger"
	"github.com/disha-labs/intern-recommender/internal/recommend"
	"github.com/disha-labs/intern-recommender/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the recommendation service",
		zap.String("version", version),
		zap.String("listen", config.Server.Listen),
	)

	provider, err := newProvider(ctx, config)
	if err != nil {
		logger.Fatal("creating the embedding provider", zap.Error(err))
	}

	load := func(ctx context.Context) (*recommend.Engine, error) {
		return loadEngine(config, provider, logger)
	}

	// A missing or broken artifact leaves the server degraded instead of
	// refusing to start: /health reports it and SIGHUP can recover once the
	// artifact is rebuilt.
	engine, err := load(ctx)
	if err != nil {
		logger.Error("starting degraded, artifact not loadable",
			zap.String("artifact", config.ArtifactFile),
			zap.Error(err),
			zap.String("hint", "run build-index and send SIGHUP to reload"),
		)
	}

	timeout := time.Duration(config.Server.RequestTimeoutSeconds) * time.Second
	srv := server.New(engine, logger, timeout)

	go srv.WatchReload(ctx, load)

	if err := srv.Run(ctx, config.Server.Listen); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

func loadEngine(config *Config, provider *embed.Gemini, logger *zap.Logger) (*recommend.Engine, error) {
	a, err := artifact.Load(config.ArtifactFile)
	if err != nil {
		return nil, err
	}

	var opts []recommend.Option
	if config.Server.Paraphrase {
		opts = append(opts, recommend.WithParaphraser(recommend.NewParaphraser(provider, logger)))
	}

	return recommend.NewEngine(a, provider, *config.Scoring, logger, opts...)
}
