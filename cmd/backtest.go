package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/service"
)

var (
	backtestStrategyID string
	backtestSymbol     string
	backtestStart      string
	backtestEnd        string
	backtestCapital    float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a single backtest and print the result as JSON",
	Run:   runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestStrategyID, "strategy", "momentum-cross", "strategy id")
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "DEMO", "symbol to backtest")
	backtestCmd.Flags().StringVar(&backtestStart, "start", "", "start date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", "", "end date (YYYY-MM-DD)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital (0 uses the configured default)")
}

func runBacktest(cmd *cobra.Command, args []string) {
	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -180)
	if backtestStart != "" {
		if start, err = time.Parse("2006-01-02", backtestStart); err != nil {
			log.Fatalf("Invalid start date: %v", err)
		}
	}
	if backtestEnd != "" {
		if end, err = time.Parse("2006-01-02", backtestEnd); err != nil {
			log.Fatalf("Invalid end date: %v", err)
		}
	}

	services := service.NewService(appDep.cfg, appDep.log, appDep.cache, appDep.provider)

	result, err := services.BacktestService.RunBacktest(context.Background(), dto.BacktestRequest{
		StrategyID:     backtestStrategyID,
		Symbol:         backtestSymbol,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: backtestCapital,
	})
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}
