package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/faqvoice/internal/app"
	"github.com/davidbz/faqvoice/internal/corpus"
	"github.com/davidbz/faqvoice/internal/domain"
	"github.com/davidbz/faqvoice/internal/http"
	"github.com/davidbz/faqvoice/internal/observability"
)

const shutdownTimeout = 10 * time.Second

type runParams struct {
	dig.In

	Server       *http.Server
	Engine       *domain.MatchingEngine
	Store        *corpus.Store
	CorpusConfig *corpus.Config
	CacheConfig  *domain.CacheConfig
	Logger       *zap.Logger
}

func main() {
	container, err := app.BuildContainer()
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	if err := container.Invoke(run); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func run(p runParams) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defer func() { _ = p.Logger.Sync() }()

	if n := p.Engine.Prewarm(ctx, p.CacheConfig.Prewarm); n > 0 {
		p.Logger.Info("embedding cache prewarmed", observability.Int("questions", n))
	}

	if p.CorpusConfig.Watch {
		watcher, err := corpus.NewWatcher(p.Store)
		if err != nil {
			return err
		}
		defer watcher.Close()

		go watcher.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := p.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
