package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/disha-labs/intern-recommender/internal/recommend"
)

// EngineLoader builds a fresh engine from the current artifact on disk.
type EngineLoader func(ctx context.Context) (*recommend.Engine, error)

// WatchReload swaps in a freshly loaded engine on SIGHUP and returns when
// ctx is canceled. A failed reload keeps the current engine serving.
func (s *Server) WatchReload(ctx context.Context, load EngineLoader) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			s.logger.Info("reload signal received, rebuilding engine from artifact")
			engine, err := load(ctx)
			if err != nil {
				s.logger.Error("engine reload failed, keeping current engine", zap.Error(err))
				continue
			}
			s.SetEngine(engine)
			s.logger.Info("engine reloaded")
		}
	}
}
