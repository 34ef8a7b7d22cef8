package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/riskcore/config"
	"github.com/rustyeddy/riskcore/monitor"
	"github.com/rustyeddy/riskcore/risk"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Replay a price script through the position monitor",
	Long: `Load open positions and a per-symbol price script from a scenario file
and run the stop-loss monitor over them tick by tick. Each sweep threads the
high-water marks forward exactly the way a live monitor would.

Example:
  riskctl watch -f risk.yaml -s scenario.yaml`,
	RunE: runWatch,
}

var (
	watchConfigPath   string
	watchScenarioPath string
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchConfigPath, "config", "f", "", "risk config file (defaults apply when omitted)")
	watchCmd.Flags().StringVarP(&watchScenarioPath, "scenario", "s", "", "scenario file with positions and prices (required)")
	watchCmd.MarkFlagRequired("scenario")
}

// watchScenario extends the check scenario with a scripted price path per
// symbol. Each sweep consumes the next price; the last one sticks.
type watchScenario struct {
	Positions []struct {
		Symbol        string    `yaml:"symbol"`
		Side          string    `yaml:"side"`
		Quantity      int       `yaml:"quantity"`
		EntryPrice    float64   `yaml:"entry_price"`
		EntryTime     time.Time `yaml:"entry_time"`
		HighWaterMark float64   `yaml:"high_water_mark"`
	} `yaml:"positions"`

	Prices map[string][]float64 `yaml:"prices"`
}

// replaySource walks each symbol's scripted prices forward one step per
// lookup, holding the final price once the script runs out.
type replaySource struct {
	mu    sync.Mutex
	steps map[string][]float64
	idx   map[string]int
}

func (r *replaySource) Price(_ context.Context, symbol string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	steps := r.steps[symbol]
	if len(steps) == 0 {
		return 0, fmt.Errorf("no scripted prices for %s", symbol)
	}

	i := r.idx[symbol]
	if i >= len(steps) {
		i = len(steps) - 1
	} else {
		r.idx[symbol] = i + 1
	}
	return steps[i], nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if watchConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(watchConfigPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	data, err := os.ReadFile(watchScenarioPath)
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	var sc watchScenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("parse scenario: %w", err)
	}
	if len(sc.Positions) == 0 {
		return fmt.Errorf("scenario has no positions to watch")
	}

	lim, err := cfg.Limits()
	if err != nil {
		return err
	}

	jrnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer jrnl.Close()

	interval := time.Second
	if cfg.Monitor.Interval != "" {
		if interval, err = time.ParseDuration(cfg.Monitor.Interval); err != nil {
			return fmt.Errorf("monitor.interval: %w", err)
		}
	}

	log, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	if addr := cfg.Monitor.MetricsAddr; addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", monitor.Handler())
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	var positions []risk.PositionState
	for _, p := range sc.Positions {
		positions = append(positions, risk.PositionState{
			Symbol:        p.Symbol,
			Side:          parseSide(p.Side),
			Quantity:      p.Quantity,
			EntryPrice:    p.EntryPrice,
			EntryTime:     p.EntryTime,
			HighWaterMark: p.HighWaterMark,
		})
	}

	src := &replaySource{steps: sc.Prices, idx: map[string]int{}}
	mon := monitor.New(risk.NewManager(lim), src, jrnl, log, interval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Watching %d position(s) every %s\n", len(positions), interval)
	if err := mon.Watch(ctx, positions); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("All positions closed or watch interrupted.")
	return nil
}
