package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/axfleet/eventwatch/internal/configs"
	"github.com/axfleet/eventwatch/internal/logger"
	"go.uber.org/zap"
)

// Watcher is a long-running consumer stopped by cancelling its context.
type Watcher interface {
	Watch(ctx context.Context) error
}

// WatcherProvider defers watcher construction until after the factory
// hook has built the clients the watcher depends on.
type WatcherProvider func() Watcher

func Run(shutdownTimeout time.Duration, registration RegistrationFunc) {
	ctx := context.Background()
	configs.Init(ctx)

	globalConfigs := configs.Get()

	loggerConfigs := globalConfigs.Logger
	logger.Init(ctx, logger.WithGlobalConfigs(&loggerConfigs))

	options := registration(globalConfigs, logger.Logger())

	opts := Options{}
	for _, optioner := range options {
		optioner(&opts)
	}

	l := zap.L().Sugar()

	l.Infof("Run: configs = %s", globalConfigs.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)

	if opts.factoryHook != nil {
		if err := opts.factoryHook(); err != nil {
			l.Fatalf("Run: factoryHook err = %s", err)
			return
		}
	}

	watchCtx, cancelWatchers := context.WithCancel(context.Background())
	defer cancelWatchers()

	var wg sync.WaitGroup
	for _, provider := range opts.watcherProviders {
		w := provider()
		if w == nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Infof("Run: start event watcher")
			if err := w.Watch(watchCtx); err != nil {
				l.Errorf("Run: event watcher err = %s", err)
			}
		}()
	}

	watchersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(watchersDone)
	}()

	// The camera closing the stream ends the process the same way an
	// interrupt does.
	select {
	case <-quit:
	case <-watchersDone:
	}
	cancelWatchers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if opts.shutdownHook != nil {
		opts.shutdownHook(shutdownCtx)
	}

	wg.Wait()

	zap.L().Sync()
	log.Print("Run: shutdown complete")
}

type RegistrationFunc func(configs *configs.Configs, logger *zap.Logger) []Optioner
type FactoryHook func() error
type ShutdownHook func(ctx context.Context)

type Options struct {
	watcherProviders []WatcherProvider

	factoryHook  FactoryHook
	shutdownHook ShutdownHook
}

type Optioner func(opts *Options)

func WithEventWatcher(provider WatcherProvider) Optioner {
	return func(opts *Options) {
		if provider != nil {
			opts.watcherProviders = append(opts.watcherProviders, provider)
		}
	}
}

func WithFactoryHook(cb FactoryHook) Optioner {
	return func(opts *Options) {
		opts.factoryHook = cb
	}
}

func WithShutdownHook(cb ShutdownHook) Optioner {
	return func(opts *Options) {
		opts.shutdownHook = cb
	}
}
