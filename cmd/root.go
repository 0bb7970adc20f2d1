package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "golang-backtest",
	Short: "Strategy backtesting and trade-simulation engine",
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(backtestCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
