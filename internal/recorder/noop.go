package recorder

import "time"

// NoopRecorder is used when no journal database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordCall(_ *CallEvent) error     { return nil }
func (n *NoopRecorder) Recent(_ int) ([]CallEvent, error) { return nil, nil }
func (n *NoopRecorder) Prune(_ time.Time) (int64, error)  { return 0, nil }
func (n *NoopRecorder) Close() error                      { return nil }
