// Package sagalog defines the audit trail written by order sagas.
//
// Every transition of a saga (start, each completed or failed step, each
// compensated step, the terminal status) is appended as one immutable entry.
// The trail is for inspection only: the orchestrator keeps its sagas in
// memory and never replays this log on restart.
package sagalog

import "time"

// Status is the kind of event an entry records.
type Status string

const (
	StatusStarted            Status = "STARTED"
	StatusStepDone           Status = "STEP_DONE"
	StatusStepFailed         Status = "STEP_FAILED"
	StatusCompensating       Status = "COMPENSATING"
	StatusStepCompensated    Status = "STEP_COMPENSATED"
	StatusCompensationFailed Status = "COMPENSATION_FAILED"
	StatusCompleted          Status = "COMPLETED"
	StatusFailed             Status = "FAILED"
	StatusCancelled          Status = "CANCELLED"
)

// SagaLog is a single row in the saga_logs table.
type SagaLog struct {
	// SagaID is the order ID.
	SagaID string `json:"saga_id"`

	Status Status `json:"status"`

	// CurrentStep is the step the event refers to, empty for saga-level events.
	CurrentStep string `json:"current_step,omitempty"`

	// Payload is the JSON order request, written once on STARTED.
	Payload string `json:"payload,omitempty"`

	// ErrorMessages is a JSON array with the failures known at this event.
	ErrorMessages string `json:"error_messages"`

	// TraceID and SpanID point at the span that was active when the entry
	// was written, so a row can be joined with its distributed trace.
	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}
