// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package operation

// EventType discriminates the payload of an Event.
type EventType string

const (
	// EventLine carries one transcript line as it arrived.
	EventLine EventType = "line"

	// EventStatus carries a classification change: the current
	// target moved or completion was detected.
	EventStatus EventType = "status"

	// EventWarning carries a non-fatal problem, such as a relocation
	// that could not be performed.
	EventWarning EventType = "warning"

	// EventOutcome carries the terminal result. It is always the
	// last event; the channel closes after it.
	EventOutcome EventType = "outcome"
)

// Event is one progress notification from a running operation.
// Exactly one payload field is non-nil, matching Type.
type Event struct {
	Type EventType

	Line    *Line
	Status  *StatusEvent
	Warning *WarningEvent
	Outcome *Outcome
}

// StatusEvent reports the classifier's current view of the tool's
// progress.
type StatusEvent struct {
	// CurrentTarget is the application currently being processed, if
	// the classifier has spotted one.
	CurrentTarget string

	// Completion is set once a completion keyword has appeared.
	Completion bool
}

// WarningEvent reports a problem that did not fail the operation.
type WarningEvent struct {
	Message string
}

func lineEvent(line Line) Event {
	return Event{Type: EventLine, Line: &line}
}

func statusEvent(classification Classification) Event {
	return Event{Type: EventStatus, Status: &StatusEvent{
		CurrentTarget: classification.CurrentTarget,
		Completion:    classification.Completion,
	}}
}

func warningEvent(message string) Event {
	return Event{Type: EventWarning, Warning: &WarningEvent{Message: message}}
}

func outcomeEvent(outcome *Outcome) Event {
	return Event{Type: EventOutcome, Outcome: outcome}
}
