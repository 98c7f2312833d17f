package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"StockMCP/internal/model"
	"StockMCP/internal/recorder"
	"StockMCP/internal/stock"
)

// Scheduler runs the housekeeping cron jobs.
type Scheduler struct {
	Cron        *cron.Cron
	Service     *stock.Service
	Recorder    recorder.Recorder
	Retention   time.Duration
	ProbeSymbol string
	Ctx         context.Context
	now         func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, svc *stock.Service, rec recorder.Recorder, retention time.Duration, probeSymbol string) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Service:     svc,
		Recorder:    rec,
		Retention:   retention,
		ProbeSymbol: probeSymbol,
		Ctx:         ctx,
		now:         time.Now,
	}
}

// RegisterAll registers the prune and probe jobs. An empty cron expression disables its job.
func (s *Scheduler) RegisterAll(pruneCron, probeCron string) error {
	if pruneCron != "" && s.Retention > 0 {
		if _, err := s.Cron.AddFunc(pruneCron, s.pruneTask); err != nil {
			return fmt.Errorf("register prune task: %w", err)
		}
	}
	if probeCron != "" && s.ProbeSymbol != "" {
		if _, err := s.Cron.AddFunc(probeCron, s.probeTask); err != nil {
			return fmt.Errorf("register probe task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.WithField("jobs", len(s.Cron.Entries())).Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// PruneNow deletes journal entries older than the retention window.
func (s *Scheduler) PruneNow() (int64, error) {
	return s.Recorder.Prune(s.now().Add(-s.Retention))
}

// ProbeNow looks up the probe symbol and journals the outcome.
func (s *Scheduler) ProbeNow() model.PriceResult {
	evt := recorder.NewCallEvent(recorder.KindProbe, "probe", model.NormalizeSymbol(s.ProbeSymbol))
	res := s.Service.Price(s.Ctx, s.ProbeSymbol)
	evt.Finish(res.Status.String(), res.Err)
	if err := s.Recorder.RecordCall(evt); err != nil {
		log.Errorf("record probe: %v", err)
	}
	return res
}

func (s *Scheduler) pruneTask() {
	n, err := s.PruneNow()
	if err != nil {
		log.Errorf("prune journal: %v", err)
		return
	}
	log.WithField("deleted", n).Info("journal pruned")
}

func (s *Scheduler) probeTask() {
	res := s.ProbeNow()
	entry := log.WithFields(log.Fields{
		"symbol":   res.Symbol,
		"provider": s.Service.Provider(),
		"outcome":  res.Status,
	})
	if !res.Found() {
		entry.Warnf("provider probe failed: %v", res.Err)
		return
	}
	entry.Infof("provider probe ok: %s", stock.FormatMoney(res.Price))
}
