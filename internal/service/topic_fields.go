package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/config"
	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/damoang/angple-revisions/internal/plugin"
	"github.com/damoang/angple-revisions/internal/repository"
)

// TopicFieldHandler validates and applies one topic field. Handlers record
// diffs via ChangeSet.RecordChange and veto via ChangeSet.MarkErrored; they
// never panic and never abort the registry scan, so one call surfaces every
// violated field.
type TopicFieldHandler func(cs *ChangeSet, newValue interface{}, fields map[string]interface{})

// TopicFieldRegistry maps topic field names to their handlers. It is built
// once at process start and iterated in registration order at call time.
type TopicFieldRegistry struct {
	order    []string
	handlers map[string]TopicFieldHandler
}

// Register adds or replaces the handler for a field. Newly tracked fields are
// appended to the iteration order.
func (r *TopicFieldRegistry) Register(field string, handler TopicFieldHandler) {
	if _, exists := r.handlers[field]; !exists {
		r.order = append(r.order, field)
	}
	r.handlers[field] = handler
}

// Fields returns the tracked field names in iteration order
func (r *TopicFieldRegistry) Fields() []string {
	return append([]string(nil), r.order...)
}

// Apply runs the handler of every tracked field present in the input, in
// stable registration order. All handlers run even after a veto so that
// diagnostics accumulate; the caller skips the save when the ChangeSet
// is errored.
func (r *TopicFieldRegistry) Apply(cs *ChangeSet, fields map[string]interface{}) {
	for _, field := range r.order {
		if value, ok := fields[field]; ok {
			r.handlers[field](cs, value, fields)
		}
	}
}

// NewTopicFieldRegistry builds the registry with the default tracked fields
func NewTopicFieldRegistry(guardian Guardian, categories repository.CategoryRepository, cfg config.RevisionConfig) *TopicFieldRegistry {
	r := &TopicFieldRegistry{handlers: make(map[string]TopicFieldHandler)}

	r.Register(FieldTitle, func(cs *ChangeSet, newValue interface{}, _ map[string]interface{}) {
		title := strings.TrimSpace(toString(newValue))
		if title == cs.Topic.Title {
			return
		}
		if common.ContainsLink(title) && !guardian.CanPlaceLinksInTitle(cs.Editor) {
			cs.MarkErrored(FieldTitle, "links are not allowed in the title")
			return
		}
		cs.RecordChange(FieldTitle, cs.Topic.Title, title)
		cs.Topic.Title = title
	})

	r.Register(FieldArchetype, func(cs *ChangeSet, newValue interface{}, _ map[string]interface{}) {
		archetype := toString(newValue)
		if archetype == cs.Topic.Archetype {
			return
		}
		cs.RecordChange(FieldArchetype, cs.Topic.Archetype, archetype)
		cs.Topic.Archetype = archetype
	})

	r.Register(FieldCategoryID, func(cs *ChangeSet, newValue interface{}, fields map[string]interface{}) {
		newID := toUint64(newValue)
		if newID == cs.Topic.CategoryID {
			return
		}

		// Zero clears the category, but only private messages may be
		// uncategorized.
		if newID == 0 {
			if !cs.Topic.IsPrivateMessage() {
				cs.MarkErrored(FieldCategoryID, "only private messages may clear the category")
				return
			}
			cs.RecordChange(FieldCategoryID, cs.Topic.CategoryID, uint64(0))
			cs.Topic.CategoryID = 0
			return
		}

		if !guardian.CanMoveToCategory(cs.Editor, newID) {
			cs.MarkErrored(FieldCategoryID, "you are not allowed to move this topic to that category")
			return
		}

		category, err := categories.FindByID(newID)
		if err != nil {
			cs.MarkErrored(FieldCategoryID, "category not found")
			return
		}

		// Tag-required categories validate the resulting tag set, not the
		// current one: tags supplied in the same edit count.
		resulting := cs.Topic.Tags
		if raw, ok := fields[FieldTags]; ok {
			resulting = normalizeTags(toStringSlice(raw))
		}
		if category.MinTagCount > 0 && len(resulting) < category.MinTagCount {
			cs.MarkErrored(FieldCategoryID,
				fmt.Sprintf("category %q requires at least %d tags", category.Name, category.MinTagCount))
			return
		}

		cs.RecordChange(FieldCategoryID, cs.Topic.CategoryID, newID)
		cs.Topic.CategoryID = newID

		if !sameTagSet(cs.Topic.Tags, resulting) {
			cs.QueueEvent(plugin.HookTopicTagsChanged, map[string]interface{}{
				"topic_id": cs.Topic.ID,
				"old_tags": append([]string(nil), cs.Topic.Tags...),
				"new_tags": resulting,
			})
		}
	})

	r.Register(FieldTags, func(cs *ChangeSet, newValue interface{}, _ map[string]interface{}) {
		newTags := normalizeTags(toStringSlice(newValue))
		oldTags := normalizeTags(cs.Topic.Tags)

		// Clearing an already-empty tag set is not an edit
		if len(oldTags) == 0 && len(newTags) == 0 {
			return
		}
		if !guardian.CanTagTopics(cs.Editor) {
			cs.MarkErrored(FieldTags, "you are not allowed to tag topics")
			return
		}
		if sameTagSet(oldTags, newTags) {
			return
		}
		cs.RecordChange(FieldTags, oldTags, newTags)
		cs.Topic.Tags = domain.StringList(newTags)
	})

	r.Register(FieldFeaturedLink, func(cs *ChangeSet, newValue interface{}, _ map[string]interface{}) {
		link := strings.TrimSpace(toString(newValue))
		if link == cs.Topic.FeaturedLink {
			return
		}
		if !cfg.FeaturedLinkEnabled {
			cs.MarkErrored(FieldFeaturedLink, "featured links are disabled")
			return
		}
		if !guardian.CanEditFeaturedLink(cs.Editor) {
			cs.MarkErrored(FieldFeaturedLink, "you are not allowed to edit the featured link")
			return
		}
		cs.RecordChange(FieldFeaturedLink, cs.Topic.FeaturedLink, link)
		cs.Topic.FeaturedLink = link
	})

	return r
}

// normalizeTags trims, drops empties and duplicates, and sorts so tag diffs
// are order-insensitive
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func sameTagSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, tag := range a {
		set[tag] = struct{}{}
	}
	for _, tag := range b {
		if _, ok := set[tag]; !ok {
			return false
		}
	}
	return true
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toUint64(v interface{}) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int64:
		if n < 0 {
			return 0
		}
		return uint64(n)
	case int:
		if n < 0 {
			return 0
		}
		return uint64(n)
	case float64:
		if n < 0 {
			return 0
		}
		return uint64(n)
	default:
		return 0
	}
}

func toStringSlice(v interface{}) []string {
	switch s := v.(type) {
	case []string:
		return s
	case domain.StringList:
		return []string(s)
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}
