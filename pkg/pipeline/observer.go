package pipeline

import (
	"log/slog"
	"time"

	"girder/pkg/model"
)

// EventType classifies pipeline events for filtering and routing.
type EventType string

const (
	EventStageStart  EventType = "stage_start"
	EventStageEnd    EventType = "stage_end"
	EventIteration   EventType = "iteration"
	EventRunComplete EventType = "run_complete"
)

// Event is a single observation from a pipeline run.
type Event struct {
	Type      EventType
	RunID     string
	Structure string
	Stage     string
	Iteration int
	Duration  time.Duration
	Counts    map[string]int
	Status    model.RunStatus
	Err       error
}

// Observer receives events during a run. Single-method design (like
// http.Handler) so adding new event types never breaks existing observers.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// MultiObserver fans out events to multiple observers.
type MultiObserver []Observer

func (m MultiObserver) OnEvent(e Event) {
	for _, obs := range m {
		obs.OnEvent(e)
	}
}

// LogObserver writes pipeline events as structured slog lines.
type LogObserver struct {
	Logger *slog.Logger
}

func (o *LogObserver) OnEvent(e Event) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	args := []any{"event", string(e.Type), "run", e.RunID}
	if e.Structure != "" {
		args = append(args, "structure", e.Structure)
	}
	if e.Stage != "" {
		args = append(args, "stage", e.Stage)
	}
	if e.Iteration > 0 {
		args = append(args, "iteration", e.Iteration)
	}
	if e.Duration > 0 {
		args = append(args, "elapsed", e.Duration)
	}
	for k, v := range e.Counts {
		args = append(args, k, v)
	}
	if e.Status != "" {
		args = append(args, "status", string(e.Status))
	}

	if e.Err != nil {
		args = append(args, "err", e.Err)
		logger.Warn("pipeline", args...)
		return
	}
	logger.Info("pipeline", args...)
}

// emit sends an event to a possibly-nil observer.
func emit(obs Observer, e Event) {
	if obs != nil {
		obs.OnEvent(e)
	}
}
