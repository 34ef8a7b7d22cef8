package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "Pre-trade and in-trade risk checks from the command line",
	Long: `Riskctl runs the riskcore decision engine against supplied account and
portfolio state.

It provides tools for:
  - Position sizing (fixed-fraction, volatility-adjusted, Kelly)
  - Pre-trade gating against exposure, correlation and loss limits
  - Stop-loss / take-profit / trailing / time-stop evaluation
  - Generating and validating risk limit configuration files

The engine itself performs no I/O: everything riskctl feeds it comes from
the scenario and config files on the command line.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
