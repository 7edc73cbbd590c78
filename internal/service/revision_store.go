package service

import (
	"context"
	"errors"
	"time"

	"github.com/damoang/angple-revisions/internal/cache"
	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/damoang/angple-revisions/internal/repository"
)

// PersistOutcome reports what happened to the revision row for one edit
type PersistOutcome struct {
	Revision *domain.Revision
	Created  bool
	Deleted  bool
	Hidden   bool
}

// RevisionStore creates, amends, and compacts the persisted revision record
// for a post version
type RevisionStore struct {
	originals  cache.OriginalStore
	hiddenTags map[string]struct{}
}

// NewRevisionStore creates a RevisionStore. Tags in hiddenTags never surface
// in public revision history.
func NewRevisionStore(originals cache.OriginalStore, hiddenTags []string) *RevisionStore {
	set := make(map[string]struct{}, len(hiddenTags))
	for _, tag := range hiddenTags {
		set[tag] = struct{}{}
	}
	return &RevisionStore{originals: originals, hiddenTags: set}
}

// Persist writes the merged diff for the post's current version. The caller
// must pass a transaction-bound repository; chainBaseAt is the post's
// last_version_at from before any counter bump, which keys the cached
// pre-chain baseline.
func (s *RevisionStore) Persist(
	ctx context.Context,
	revisions repository.RevisionRepository,
	post *domain.Post,
	diff map[string]FieldChange,
	isNewVersion bool,
	editor domain.Editor,
	chainBaseAt time.Time,
) (*PersistOutcome, error) {
	if isNewVersion {
		return s.create(ctx, revisions, post, diff, editor, chainBaseAt)
	}
	return s.amend(revisions, post, diff)
}

func (s *RevisionStore) create(
	ctx context.Context,
	revisions repository.RevisionRepository,
	post *domain.Post,
	diff map[string]FieldChange,
	editor domain.Editor,
	chainBaseAt time.Time,
) (*PersistOutcome, error) {
	mods := make(domain.Modifications, len(diff))
	for field, change := range diff {
		mods[field] = []interface{}{change.Old, change.New}
	}

	// A chain of rapid edits must still report the pre-chain baseline as
	// the "old" value, not the immediately preceding state.
	_, hasContent := mods[FieldContent]
	_, hasCooked := mods[FieldCookedContent]
	if hasContent || hasCooked {
		original, found, err := s.originals.Get(ctx, post.ID, chainBaseAt)
		if err != nil {
			return nil, err
		}
		if found {
			if hasContent {
				mods[FieldContent][0] = original.Content
			}
			if hasCooked {
				mods[FieldCookedContent][0] = original.CookedContent
			}
		}
	}

	revision := &domain.Revision{
		PostID:        post.ID,
		Version:       post.Version,
		EditorID:      editor.ID,
		Modifications: mods,
		Hidden:        s.isHiddenTagOnly(mods),
	}
	if err := revisions.Create(revision); err != nil {
		return nil, err
	}
	return &PersistOutcome{Revision: revision, Created: true, Hidden: revision.Hidden}, nil
}

func (s *RevisionStore) amend(
	revisions repository.RevisionRepository,
	post *domain.Post,
	diff map[string]FieldChange,
) (*PersistOutcome, error) {
	revision, err := revisions.FindByPostIDAndVersion(post.ID, post.Version)
	if errors.Is(err, common.ErrRevisionNotFound) {
		// The current version has no revision row: grace-period edits on a
		// freshly created post leave no history to amend.
		return &PersistOutcome{}, nil
	}
	if err != nil {
		return nil, err
	}

	if revision.Modifications == nil {
		revision.Modifications = make(domain.Modifications)
	}
	for field, change := range diff {
		existing, recorded := revision.Modifications[field]
		if !recorded {
			revision.Modifications[field] = []interface{}{change.Old, change.New}
			continue
		}
		// The revision keeps the chain's original "old"; if the new value
		// circles back to it, the net effect over the chain is zero and the
		// field entry goes away entirely.
		if jsonEqual(existing[0], change.New) {
			delete(revision.Modifications, field)
		} else {
			revision.Modifications[field] = []interface{}{existing[0], change.New}
		}
	}

	if len(revision.Modifications) == 0 {
		if err := revisions.Delete(post.ID, post.Version); err != nil {
			return nil, err
		}
		return &PersistOutcome{Deleted: true, Hidden: revision.Hidden}, nil
	}

	if err := revisions.Save(revision); err != nil {
		return nil, err
	}
	return &PersistOutcome{Revision: revision, Hidden: revision.Hidden}, nil
}

// isHiddenTagOnly reports whether the only change is a tag edit touching
// nothing but hidden tags
func (s *RevisionStore) isHiddenTagOnly(mods domain.Modifications) bool {
	if len(mods) != 1 {
		return false
	}
	pair, ok := mods[FieldTags]
	if !ok || len(pair) != 2 {
		return false
	}

	oldTags := toStringSlice(pair[0])
	newTags := toStringSlice(pair[1])
	changed := symmetricTagDiff(oldTags, newTags)
	if len(changed) == 0 {
		return false
	}
	for _, tag := range changed {
		if _, hidden := s.hiddenTags[tag]; !hidden {
			return false
		}
	}
	return true
}

// symmetricTagDiff returns tags present in exactly one of the two sets
func symmetricTagDiff(a, b []string) []string {
	inA := make(map[string]struct{}, len(a))
	for _, tag := range a {
		inA[tag] = struct{}{}
	}
	inB := make(map[string]struct{}, len(b))
	for _, tag := range b {
		inB[tag] = struct{}{}
	}

	var changed []string
	for _, tag := range a {
		if _, ok := inB[tag]; !ok {
			changed = append(changed, tag)
		}
	}
	for _, tag := range b {
		if _, ok := inA[tag]; !ok {
			changed = append(changed, tag)
		}
	}
	return changed
}
