package cmd

import (
	"fmt"

	"github.com/rustyeddy/riskcore/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate risk configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with the default risk limits.

Example:
  riskctl config init -o risk.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	RunE:  runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "risk.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	lim, err := cfg.Limits()
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Position size cap: %.1f%% of equity (%s sizing)\n", lim.MaxPositionSize*100, cfg.Risk.SizingMode)
	fmt.Printf("  Exposure cap: %.0f%%, correlation cap: %.2f\n", lim.MaxPortfolioExposure*100, lim.MaxCorrelation)
	fmt.Printf("  Breakers: daily loss %.1f%%, drawdown %.1f%%\n", lim.DailyLossLimit*100, lim.MaxDrawdownLimit*100)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
