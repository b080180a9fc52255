package cmd

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"roadwatch/internal/components"
	"roadwatch/internal/config"
)

func RunAlertStore() error {
	cfg, err := config.Load(context.Background())
	if err != nil {
		return err
	}
	logger := components.SetupLogger(cfg.Env)

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comps, err := components.InitAlertStore(appCtx, cfg, logger)
	if err != nil {
		logger.Error("could not init alert store components", "err", err)
		return err
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		comps.Dispatcher.Run(ctx)
	}()

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChan

	stop()
	logger.Info("captured signal, initiating shutdown", "signal", sig.String())

	wg.Wait()

	comps.ShutdownAll()
	logger.Info("alert store shut down gracefully")

	return nil
}
