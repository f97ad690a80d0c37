package orchestrator

import "time"

// Stage represents where a run is within a component's lifecycle.
type Stage string

const (
	StageProbing    Stage = "probing"
	StageInstalling Stage = "installing"
	StageDone       Stage = "done"
	StageSkipped    Stage = "skipped"
	StageError      Stage = "error"
	StageComplete   Stage = "complete"
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the stage.
func (s Stage) DisplayName() string {
	switch s {
	case StageProbing:
		return "Checking"
	case StageInstalling:
		return "Installing"
	case StageDone:
		return "Done"
	case StageSkipped:
		return "Skipped"
	case StageError:
		return "Error"
	case StageComplete:
		return "Complete"
	default:
		return string(s)
	}
}

// ProgressEvent represents a run progress update.
type ProgressEvent struct {
	Stage     Stage     // Current stage
	Component string    // Installer ID this event belongs to, empty for run-level events
	Message   string    // Human-readable message
	Detail    string    // Additional detail or output
	Percent   int       // 0-100, -1 for indeterminate
	IsError   bool      // True if this is an error message
	Timestamp time.Time // When this event occurred
}

// NewProgressEvent creates a new progress event.
func NewProgressEvent(stage Stage, component, message string, percent int) ProgressEvent {
	return ProgressEvent{
		Stage:     stage,
		Component: component,
		Message:   message,
		Percent:   percent,
		Timestamp: time.Now(),
	}
}

// NewErrorEvent creates an error progress event for a component.
func NewErrorEvent(component, message, detail string, percent int) ProgressEvent {
	return ProgressEvent{
		Stage:     StageError,
		Component: component,
		Message:   message,
		Detail:    detail,
		Percent:   percent,
		IsError:   true,
		Timestamp: time.Now(),
	}
}

// ProgressCallback is called with progress updates during a run.
type ProgressCallback func(ProgressEvent)

// NoOpProgress is a progress callback that does nothing.
func NoOpProgress(_ ProgressEvent) {}

// ProgressTracker collects progress events for later review.
type ProgressTracker struct {
	events []ProgressEvent
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		events: make([]ProgressEvent, 0),
	}
}

// Callback returns a ProgressCallback that records events.
func (t *ProgressTracker) Callback() ProgressCallback {
	return func(e ProgressEvent) {
		t.events = append(t.events, e)
	}
}

// Events returns all recorded events.
func (t *ProgressTracker) Events() []ProgressEvent {
	return t.events
}

// LastEvent returns the most recent event, or nil if none.
func (t *ProgressTracker) LastEvent() *ProgressEvent {
	if len(t.events) == 0 {
		return nil
	}
	return &t.events[len(t.events)-1]
}

// HasErrors returns true if any error events were recorded.
func (t *ProgressTracker) HasErrors() bool {
	for _, e := range t.events {
		if e.IsError {
			return true
		}
	}
	return false
}

// Errors returns all error events.
func (t *ProgressTracker) Errors() []ProgressEvent {
	var errs []ProgressEvent
	for _, e := range t.events {
		if e.IsError {
			errs = append(errs, e)
		}
	}
	return errs
}
