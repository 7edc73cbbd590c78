package service

import (
	"testing"

	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestChangeSetRecordChange(t *testing.T) {
	cs := NewChangeSet(&domain.Topic{}, domain.Editor{ID: 1})

	cs.RecordChange(FieldTitle, "old title", "new title")

	assert.Len(t, cs.Diff(), 1)
	assert.Equal(t, "old title", cs.Diff()[FieldTitle].Old)
	assert.Equal(t, "new title", cs.Diff()[FieldTitle].New)
}

func TestChangeSetRecordChangeEqualValuesIsNoop(t *testing.T) {
	cs := NewChangeSet(&domain.Topic{}, domain.Editor{ID: 1})

	cs.RecordChange(FieldTitle, "same", "same")
	// Values that only differ in Go type but share a JSON encoding are equal:
	// revision diffs survive a JSON round-trip through the database.
	cs.RecordChange(FieldTags, []string{"a", "b"}, []interface{}{"a", "b"})
	cs.RecordChange(FieldCategoryID, uint64(7), float64(7))

	assert.Empty(t, cs.Diff())
}

func TestChangeSetMarkErroredAccumulates(t *testing.T) {
	cs := NewChangeSet(&domain.Topic{}, domain.Editor{ID: 1})
	assert.False(t, cs.Errored())

	cs.MarkErrored(FieldTitle, "links are not allowed in the title")
	cs.MarkErrored(FieldTags, "you are not allowed to tag topics")

	assert.True(t, cs.Errored())
	verrs := cs.ValidationErrors()
	assert.Len(t, verrs.Errors, 2)
	assert.Equal(t, FieldTitle, verrs.Errors[0].Field)
	assert.Equal(t, FieldTags, verrs.Errors[1].Field)
}

func TestChangeSetQueueEventPreservesOrder(t *testing.T) {
	cs := NewChangeSet(&domain.Topic{}, domain.Editor{ID: 1})

	cs.QueueEvent("first", map[string]interface{}{"n": 1})
	cs.QueueEvent("second", map[string]interface{}{"n": 2})

	events := cs.Events()
	assert.Len(t, events, 2)
	assert.Equal(t, "first", events[0].Event)
	assert.Equal(t, "second", events[1].Event)
}

func TestJSONEqual(t *testing.T) {
	tests := []struct {
		name string
		a    interface{}
		b    interface{}
		want bool
	}{
		{"equal strings", "x", "x", true},
		{"different strings", "x", "y", false},
		{"int vs float same value", 7, 7.0, true},
		{"string slice vs interface slice", []string{"a"}, []interface{}{"a"}, true},
		{"string list vs string slice", domain.StringList{"a"}, []string{"a"}, true},
		{"nil vs empty slice", nil, []string{}, false},
		{"number vs string", 1, "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, jsonEqual(tt.a, tt.b))
		})
	}
}
