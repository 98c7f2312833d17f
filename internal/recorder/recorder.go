package recorder

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event kinds.
const (
	KindTool     = "tool"
	KindResource = "resource"
	KindProbe    = "probe"
)

// CallEvent is one journaled invocation and its outcome. Prices are not recorded.
type CallEvent struct {
	ID       string
	Time     time.Time
	Kind     string
	Name     string
	Symbols  []string
	Period   string
	Outcome  string // ok, not_found, empty, provider_error, unavailable
	Detail   string
	Duration time.Duration
}

// NewCallEvent starts an event stamped now with a fresh ID.
func NewCallEvent(kind, name string, symbols ...string) *CallEvent {
	return &CallEvent{
		ID:      uuid.NewString(),
		Time:    time.Now(),
		Kind:    kind,
		Name:    name,
		Symbols: symbols,
	}
}

// Finish sets the outcome and the time elapsed since the event started.
func (e *CallEvent) Finish(outcome string, detail error) *CallEvent {
	e.Outcome = outcome
	if detail != nil {
		e.Detail = detail.Error()
	}
	e.Duration = time.Since(e.Time)
	return e
}

func (e *CallEvent) symbolList() string { return strings.Join(e.Symbols, ",") }

// Recorder journals call outcomes.
type Recorder interface {
	RecordCall(evt *CallEvent) error
	// Recent returns up to limit events, newest first.
	Recent(limit int) ([]CallEvent, error)
	// Prune deletes events older than before and reports how many were removed.
	Prune(before time.Time) (int64, error)
	Close() error
}
