package service

import (
	"strings"
	"time"
)

// Tracked post field names
const (
	FieldContent       = "content"
	FieldCookedContent = "cooked_content"
	FieldOwnerID       = "owner_id"
	FieldEditReason    = "edit_reason"
	FieldKind          = "kind"
)

// Tracked topic field names
const (
	FieldTitle        = "title"
	FieldArchetype    = "archetype"
	FieldCategoryID   = "category_id"
	FieldTags         = "tags"
	FieldFeaturedLink = "featured_link"
)

// RevisionFields carries the proposed edits for one revise call. Nil pointers
// (and a nil Tags slice) mean "field not present in this edit".
type RevisionFields struct {
	Content       *string
	CookedContent *string
	EditReason    *string
	OwnerID       *uint64
	Kind          *string

	Title        *string
	Archetype    *string
	CategoryID   *uint64
	Tags         []string
	FeaturedLink *string
}

// TopicFields returns the topic-level fields present in this edit, keyed the
// way the field registry expects them
func (f *RevisionFields) TopicFields() map[string]interface{} {
	m := make(map[string]interface{})
	if f.Title != nil {
		m[FieldTitle] = *f.Title
	}
	if f.Archetype != nil {
		m[FieldArchetype] = *f.Archetype
	}
	if f.CategoryID != nil {
		m[FieldCategoryID] = *f.CategoryID
	}
	if f.Tags != nil {
		m[FieldTags] = append([]string(nil), f.Tags...)
	}
	if f.FeaturedLink != nil {
		m[FieldFeaturedLink] = *f.FeaturedLink
	}
	return m
}

// normalize trims free-text input and drops a blank edit reason so it never
// overwrites a prior reason
func (f *RevisionFields) normalize() {
	if f.Content != nil {
		trimmed := strings.TrimRight(*f.Content, " \t\r\n")
		f.Content = &trimmed
	}
	if f.Title != nil {
		trimmed := strings.TrimSpace(*f.Title)
		f.Title = &trimmed
	}
	if f.EditReason != nil {
		trimmed := strings.TrimSpace(*f.EditReason)
		if trimmed == "" {
			f.EditReason = nil
		} else {
			f.EditReason = &trimmed
		}
	}
	if f.FeaturedLink != nil {
		trimmed := strings.TrimSpace(*f.FeaturedLink)
		f.FeaturedLink = &trimmed
	}
}

// ReviseOptions tweaks how one revise call is handled
type ReviseOptions struct {
	// ForceNewVersion always starts a new version regardless of the
	// grace-period heuristics.
	ForceNewVersion bool
	// SkipRevision mutates the post without writing any revision history.
	SkipRevision bool
	// SkipRateLimit bypasses the edit rate limiter (system edits).
	SkipRateLimit bool
	// RevisedAt overrides the edit timestamp; zero means now.
	RevisedAt time.Time
}
