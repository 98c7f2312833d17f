package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"StockMCP/internal/config"
	"StockMCP/internal/mcpserver"
	"StockMCP/internal/scheduler"
)

// Version is set at build time.
var Version = "dev"

const defaultConfigPath = "configs/config.yaml"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var cfgPath, logLevel string
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:           "stockmcp",
		Short:         "Stock price, history and comparison tools over MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if cfgPath == "" {
				cfgPath = defaultConfigPath
				if v := os.Getenv("CONFIG_PATH"); v != "" {
					cfgPath = v
				}
			}
			loaded, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logLevel != "" {
				loaded.Log.Level = logLevel
			}
			if err := loaded.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			if err := SetupLogging(loaded.Log.Level, loaded.Log.Format); err != nil {
				return err
			}
			*cfg = *loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration file path (default $CONFIG_PATH or "+defaultConfigPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(
		newServeCmd(cfg),
		newPriceCmd(cfg),
		newHistoryCmd(cfg),
		newCompareCmd(cfg),
		newIndicatorsCmd(cfg),
		newJournalCmd(cfg),
		newVersionCmd(),
	)
	return rootCmd
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	var transport, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport != "" {
				cfg.Server.Transport = transport
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "", "transport: stdio or http")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for the http transport")
	return cmd
}

func serve(parent context.Context, cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	sched := scheduler.NewScheduler(ctx, app.Service, app.Recorder, cfg.Journal.Retention, cfg.Schedule.ProbeSymbol)
	if err := sched.RegisterAll(cfg.Schedule.PruneCron, cfg.Schedule.ProbeCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			log.Info("shutdown signal received, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := mcpserver.New(app.Service, app.Recorder, mcpserver.Options{
		Name:           cfg.Server.Name,
		Version:        Version,
		SessionTimeout: cfg.Server.SessionTimeout,
	})
	if cfg.Server.Transport == "http" {
		err = srv.RunHTTP(ctx, cfg.Server.Addr)
	} else {
		err = srv.RunStdio(ctx)
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// withApp runs fn against a freshly wired App and prints its result.
func withApp(cfg *config.Config, fn func(ctx context.Context, app *App) string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		app, err := NewApp(cfg)
		if err != nil {
			return err
		}
		defer app.Close()
		fmt.Fprintln(cmd.OutOrStdout(), fn(cmd.Context(), app))
		return nil
	}
}

func newPriceCmd(cfg *config.Config) *cobra.Command {
	var symbol string
	cmd := &cobra.Command{
		Use:   "price SYMBOL",
		Short: "Print the latest closing price (-1 if unavailable)",
		Args:  cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			symbol = args[0]
		},
	}
	cmd.RunE = withApp(cfg, func(ctx context.Context, app *App) string {
		return fmt.Sprint(app.Service.GetPrice(ctx, symbol))
	})
	return cmd
}

func newHistoryCmd(cfg *config.Config) *cobra.Command {
	var symbol, period string
	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Print historical prices as CSV",
		Args:  cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			symbol = args[0]
		},
	}
	cmd.Flags().StringVar(&period, "period", "1mo", "history window (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)")
	cmd.RunE = withApp(cfg, func(ctx context.Context, app *App) string {
		return app.Service.GetHistory(ctx, symbol, period)
	})
	return cmd
}

func newCompareCmd(cfg *config.Config) *cobra.Command {
	var a, b string
	cmd := &cobra.Command{
		Use:   "compare SYMBOL1 SYMBOL2",
		Short: "Compare the latest prices of two stocks",
		Args:  cobra.ExactArgs(2),
		PreRun: func(cmd *cobra.Command, args []string) {
			a, b = args[0], args[1]
		},
	}
	cmd.RunE = withApp(cfg, func(ctx context.Context, app *App) string {
		return app.Service.CompareStocks(ctx, a, b)
	})
	return cmd
}

func newIndicatorsCmd(cfg *config.Config) *cobra.Command {
	var symbol string
	cmd := &cobra.Command{
		Use:   "indicators SYMBOL",
		Short: "Print moving averages, RSI and ranges for a stock",
		Args:  cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			symbol = args[0]
		},
	}
	cmd.RunE = withApp(cfg, func(ctx context.Context, app *App) string {
		return app.Service.GetIndicators(ctx, symbol)
	})
	return cmd
}

func newJournalCmd(cfg *config.Config) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Show the most recent journaled calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := openRecorder(cfg.Journal.SQLitePath)
			defer rec.Close()

			events, err := rec.Recent(limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tKIND\tNAME\tSYMBOLS\tOUTCOME\tDURATION\tDETAIL")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%s\t%s\n",
					e.Time.Format("2006-01-02 15:04:05"), e.Kind, e.Name, e.Symbols, e.Outcome, e.Duration, e.Detail)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of calls to show")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
