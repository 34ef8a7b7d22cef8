package cmd

import (
	"fmt"

	"github.com/rustyeddy/riskcore/config"
	"github.com/rustyeddy/riskcore/indicators"
	"github.com/rustyeddy/riskcore/risk"
	"github.com/spf13/cobra"
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Recommend a position size for a trade",
	Long: `Compute the recommended share quantity for a trade at the given price.

Examples:
  riskctl size --price 175 --equity 100000
  riskctl size --price 175 --equity 100000 --mode volatility --atr 2.5
  riskctl size --price 175 --equity 100000 --mode volatility --bars bars.csv
  riskctl size --price 175 --equity 100000 --mode kelly \
      --win-rate 0.55 --avg-win 150 --avg-loss 100`,
	RunE: runSize,
}

var (
	sizeConfigPath string
	sizePrice      float64
	sizeEquity     float64
	sizeMode       string
	sizeATR        float64
	sizeBarsPath   string
	sizeATRPeriod  int
	sizeWinRate    float64
	sizeAvgWin     float64
	sizeAvgLoss    float64
)

func init() {
	rootCmd.AddCommand(sizeCmd)

	sizeCmd.Flags().StringVarP(&sizeConfigPath, "config", "f", "", "risk config file (defaults apply when omitted)")
	sizeCmd.Flags().Float64Var(&sizePrice, "price", 0, "current price (required)")
	sizeCmd.Flags().Float64Var(&sizeEquity, "equity", 0, "account equity (required)")
	sizeCmd.Flags().StringVar(&sizeMode, "mode", "", "sizing mode: fixed, volatility or kelly (overrides config)")
	sizeCmd.Flags().Float64Var(&sizeATR, "atr", 0, "volatility (ATR) for volatility mode")
	sizeCmd.Flags().StringVar(&sizeBarsPath, "bars", "", "OHLC bars CSV; computes the ATR instead of --atr")
	sizeCmd.Flags().IntVar(&sizeATRPeriod, "atr-period", 14, "ATR period for --bars")
	sizeCmd.Flags().Float64Var(&sizeWinRate, "win-rate", 0, "historical win rate for kelly mode")
	sizeCmd.Flags().Float64Var(&sizeAvgWin, "avg-win", 0, "average win for kelly mode")
	sizeCmd.Flags().Float64Var(&sizeAvgLoss, "avg-loss", 0, "average loss for kelly mode")
	sizeCmd.MarkFlagRequired("price")
	sizeCmd.MarkFlagRequired("equity")
}

func runSize(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if sizeConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(sizeConfigPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}
	if sizeMode != "" {
		cfg.Risk.SizingMode = sizeMode
	}

	lim, err := cfg.Limits()
	if err != nil {
		return err
	}
	mode, err := cfg.SizingMode()
	if err != nil {
		return err
	}

	vol := sizeATR
	if sizeBarsPath != "" {
		if sizeATR != 0 {
			return fmt.Errorf("--bars and --atr are mutually exclusive")
		}
		bars, err := indicators.ReadBarsCSV(sizeBarsPath)
		if err != nil {
			return fmt.Errorf("load bars: %w", err)
		}
		if vol, err = indicators.ATRFunc(bars, sizeATRPeriod); err != nil {
			return err
		}
	}

	qty, err := risk.Size(sizePrice, sizeEquity, lim, mode, risk.SizeParams{
		Volatility: vol,
		WinRate:    sizeWinRate,
		AvgWin:     sizeAvgWin,
		AvgLoss:    sizeAvgLoss,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s sizing: %d shares (%.2f%% of equity at %.2f)\n",
		mode, qty, 100*float64(qty)*sizePrice/sizeEquity, sizePrice)
	return nil
}
