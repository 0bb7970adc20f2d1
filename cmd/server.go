package cmd

import (
	"context"
	"fmt"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	deliveryHttp "golang-backtest/internal/delivery/http"
	"golang-backtest/internal/service"
	"golang-backtest/pkg/logger"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the backtesting API server",
	Run:   runServer,
}

func runServer(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	services := service.NewService(appDep.cfg, appDep.log, appDep.cache, appDep.provider)

	handler := deliveryHttp.NewHttpAPIHandler(appDep.echo, appDep.validator, services)
	handler.SetupRoutes()

	services.SchedulerService.Start(ctx, schedulerSymbols())

	go func() {
		appDep.log.Info("Starting HTTP server", logger.IntField("port", appDep.cfg.API.Port))
		address := fmt.Sprintf(":%d", appDep.cfg.API.Port)
		if err := appDep.echo.Start(address); err != nil && err != httpNet.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	appDep.log.Info("Shutting down gracefully...")

	services.SchedulerService.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := appDep.echo.Shutdown(shutdownCtx); err != nil {
		appDep.log.Error("Error when stopping HTTP server", logger.ErrorField(err))
	}

	if err := appDep.Close(); err != nil {
		log.Printf("Failed to close app dependency: %v", err)
	}
}

func schedulerSymbols() []string {
	return []string{"DEMO"}
}
