package service

import (
	"bytes"
	"encoding/json"

	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/domain"
)

// FieldChange is one recorded (old, new) pair
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// PendingEvent is a hook dispatch queued during the registry run and fired
// only after the transaction commits
type PendingEvent struct {
	Event   string
	Payload map[string]interface{}
}

// ChangeSet accumulates per-field diffs and validation failures for one
// revise attempt. It lives for a single call and is discarded afterwards.
type ChangeSet struct {
	Topic  *domain.Topic
	Editor domain.Editor

	diff    map[string]FieldChange
	events  []PendingEvent
	errored bool
	errs    common.ValidationErrors
}

// NewChangeSet creates a ChangeSet for one revise attempt
func NewChangeSet(topic *domain.Topic, editor domain.Editor) *ChangeSet {
	return &ChangeSet{
		Topic:  topic,
		Editor: editor,
		diff:   make(map[string]FieldChange),
	}
}

// RecordChange records a field diff. No-op when old and new are equal.
func (cs *ChangeSet) RecordChange(field string, oldValue, newValue interface{}) {
	if jsonEqual(oldValue, newValue) {
		return
	}
	cs.diff[field] = FieldChange{Old: oldValue, New: newValue}
}

// MarkErrored vetoes the edit with a user-facing message. The flag is
// monotonic: once set it stays set for the rest of the attempt.
func (cs *ChangeSet) MarkErrored(field, message string) {
	cs.errored = true
	cs.errs.Add(field, message)
}

// Errored reports whether any guard vetoed the edit
func (cs *ChangeSet) Errored() bool {
	return cs.errored
}

// Diff returns the accumulated field diffs
func (cs *ChangeSet) Diff() map[string]FieldChange {
	return cs.diff
}

// ValidationErrors returns the collected veto messages
func (cs *ChangeSet) ValidationErrors() *common.ValidationErrors {
	return &cs.errs
}

// QueueEvent defers a hook dispatch until after the transaction commits
func (cs *ChangeSet) QueueEvent(event string, payload map[string]interface{}) {
	cs.events = append(cs.events, PendingEvent{Event: event, Payload: payload})
}

// Events returns the queued post-commit dispatches
func (cs *ChangeSet) Events() []PendingEvent {
	return cs.events
}

// jsonEqual compares two values by their canonical JSON encoding. Revision
// diffs survive a JSON round-trip through the database, so []string vs
// []interface{} and integer-width differences must not break equality.
func jsonEqual(a, b interface{}) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
