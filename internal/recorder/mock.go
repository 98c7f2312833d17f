package recorder

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRecorder is a testify mock of Recorder.
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordCall(evt *CallEvent) error {
	args := m.Called(evt)
	return args.Error(0)
}

func (m *MockRecorder) Recent(limit int) ([]CallEvent, error) {
	args := m.Called(limit)
	events, _ := args.Get(0).([]CallEvent)
	return events, args.Error(1)
}

func (m *MockRecorder) Prune(before time.Time) (int64, error) {
	args := m.Called(before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecorder) Close() error {
	args := m.Called()
	return args.Error(0)
}
