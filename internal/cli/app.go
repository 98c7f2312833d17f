package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"StockMCP/internal/collector"
	"StockMCP/internal/config"
	"StockMCP/internal/recorder"
	"StockMCP/internal/stock"
)

// App holds the wired services shared by every command.
type App struct {
	Config   *config.Config
	Fetcher  collector.Fetcher
	Service  *stock.Service
	Recorder recorder.Recorder
}

// NewApp wires the provider, query service and journal from cfg.
func NewApp(cfg *config.Config) (*App, error) {
	fetcher, err := NewFetcher(cfg)
	if err != nil {
		return nil, err
	}
	log.WithField("provider", fetcher.Name()).Info("data source ready")

	return &App{
		Config:   cfg,
		Fetcher:  fetcher,
		Service:  stock.NewService(collector.NewAdapter(fetcher, cfg.Provider.Timeout)),
		Recorder: openRecorder(cfg.Journal.SQLitePath),
	}, nil
}

// Close releases the journal.
func (a *App) Close() {
	if err := a.Recorder.Close(); err != nil {
		log.Errorf("close journal: %v", err)
	}
}

// NewFetcher builds the provider named in cfg.
func NewFetcher(cfg *config.Config) (collector.Fetcher, error) {
	p := cfg.Provider
	switch p.Name {
	case "yahoo":
		f := collector.NewYahooFetcher(p.BaseURL, cfg.Proxy, p.UserAgent, p.Timeout)
		for k, v := range p.SymbolMap {
			f.SymbolMap[k] = v
		}
		return f, nil
	case "financego":
		return collector.NewFinanceGoFetcher(), nil
	case "rest":
		return collector.NewRESTFetcher(p.BaseURL, p.APIKey, cfg.Proxy, p.Timeout), nil
	case "mock":
		return collector.NewMockFetcher(p.MockPrice), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", p.Name)
	}
}

func openRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warnf("init sqlite journal failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// SetupLogging configures the standard logrus logger. Output stays on stderr
// because stdout carries the stdio transport.
func SetupLogging(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	if format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
