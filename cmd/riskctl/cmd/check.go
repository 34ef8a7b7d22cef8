package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/riskcore/config"
	"github.com/rustyeddy/riskcore/journal"
	"github.com/rustyeddy/riskcore/risk"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the risk checks for a scenario file",
	Long: `Evaluate a scenario file against the configured risk limits: the
pre-trade gate for the proposed trade, then the stop triggers for every open
position. Decisions are journaled per the config.

Example:
  riskctl check -f risk.yaml -s scenario.yaml`,
	RunE: runCheck,
}

var (
	checkConfigPath   string
	checkScenarioPath string
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkConfigPath, "config", "f", "", "risk config file (defaults apply when omitted)")
	checkCmd.Flags().StringVarP(&checkScenarioPath, "scenario", "s", "", "scenario file (required)")
	checkCmd.MarkFlagRequired("scenario")
}

// scenario is the YAML shape riskctl feeds the engine: one consistent
// snapshot of everything the caller would normally assemble from its
// persistence layer.
type scenario struct {
	Account struct {
		Equity float64 `yaml:"equity"`
		Cash   float64 `yaml:"cash"`
	} `yaml:"account"`

	PnL struct {
		DayPL            float64 `yaml:"day_pl"`
		StartOfDayEquity float64 `yaml:"start_of_day_equity"`
		PeakEquity       float64 `yaml:"peak_equity"`
		Equity           float64 `yaml:"equity"`
	} `yaml:"pnl"`

	Positions []struct {
		Symbol        string    `yaml:"symbol"`
		Side          string    `yaml:"side"`
		Quantity      int       `yaml:"quantity"`
		EntryPrice    float64   `yaml:"entry_price"`
		EntryTime     time.Time `yaml:"entry_time"`
		HighWaterMark float64   `yaml:"high_water_mark"`
	} `yaml:"positions"`

	Marks     map[string]float64   `yaml:"marks"`
	Returns   map[string][]float64 `yaml:"returns"`
	Benchmark []float64            `yaml:"benchmark"`

	Trade *struct {
		Symbol   string  `yaml:"symbol"`
		Side     string  `yaml:"side"`
		Quantity int     `yaml:"quantity"`
		Price    float64 `yaml:"price"`
	} `yaml:"trade"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if checkConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(checkConfigPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	data, err := os.ReadFile(checkScenarioPath)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}

	lim, err := cfg.Limits()
	if err != nil {
		return err
	}
	mgr := risk.NewManager(lim)
	if mgr.Mode, err = cfg.SizingMode(); err != nil {
		return err
	}

	jrnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jrnl.Close()

	now := time.Now()
	acct := risk.AccountSnapshot{Equity: sc.Account.Equity, Cash: sc.Account.Cash, Time: now}
	pnl := risk.PnLSnapshot(sc.PnL)

	pf := risk.PortfolioSnapshot{
		Marks:            sc.Marks,
		Returns:          sc.Returns,
		BenchmarkReturns: sc.Benchmark,
	}
	for _, p := range sc.Positions {
		pf.Positions = append(pf.Positions, risk.PositionState{
			Symbol:        p.Symbol,
			Side:          parseSide(p.Side),
			Quantity:      p.Quantity,
			EntryPrice:    p.EntryPrice,
			EntryTime:     p.EntryTime,
			HighWaterMark: p.HighWaterMark,
		})
	}

	if sc.Trade != nil {
		tr := sc.Trade
		side := parseSide(tr.Side)

		d, err := mgr.CanOpen(tr.Symbol, side, tr.Quantity, tr.Price, acct, pf, pnl)
		if err != nil {
			return fmt.Errorf("pre-trade check: %w", err)
		}
		if err := jrnl.RecordDecision(journal.NewOpenRecord(tr.Symbol, side, tr.Quantity, tr.Price, d, now)); err != nil {
			return fmt.Errorf("journal: %w", err)
		}

		if d.Allowed {
			fmt.Printf("OPEN  %-6s %s %d @ %.2f: allowed (exposure %.1f%%, weight %.2f%%)\n",
				tr.Symbol, side, tr.Quantity, tr.Price, 100*d.Exposure, 100*d.Weight)
		} else {
			fmt.Printf("OPEN  %-6s %s %d @ %.2f: DENIED [%s] %s\n",
				tr.Symbol, side, tr.Quantity, tr.Price, d.Code, d.Reason)
		}
	}

	for _, pos := range pf.Positions {
		mark, ok := sc.Marks[pos.Symbol]
		if !ok {
			return fmt.Errorf("scenario has no mark price for %s", pos.Symbol)
		}

		d, err := mgr.ShouldExit(pos, mark, now)
		if err != nil {
			return fmt.Errorf("stop check %s: %w", pos.Symbol, err)
		}
		if d.Exit {
			if err := jrnl.RecordDecision(journal.NewExitRecord(pos, mark, d, now)); err != nil {
				return fmt.Errorf("journal: %w", err)
			}
			fmt.Printf("EXIT  %-6s @ %.2f: [%s] %s\n", pos.Symbol, mark, d.Code, d.Reason)
		} else {
			fmt.Printf("HOLD  %-6s @ %.2f: return %.2f%%, mark %.2f\n",
				pos.Symbol, mark, 100*d.Return, d.HighWaterMark)
		}
	}

	s, err := mgr.Summarize(acct, pf, pnl)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	fmt.Printf("\nExposure %.1f%%  Day P&L %.2f%%  Drawdown %.2f%%  VaR %.0f  Beta %.2f\n",
		100*s.Exposure, 100*s.DailyLoss, 100*s.Drawdown, s.VaR, s.Beta)
	if !s.CanTrade {
		fmt.Printf("Trading halted: %s\n", s.HaltedBy)
	}
	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.DecisionsFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Nop{}, nil
	}
}

func parseSide(s string) risk.Side {
	if s == "short" || s == "sell" {
		return risk.Short
	}
	return risk.Long
}
