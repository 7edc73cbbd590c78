package service

import (
	"context"
	"testing"
	"time"

	"github.com/damoang/angple-revisions/internal/cache"
	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storeFixture(hiddenTags ...string) (*RevisionStore, *mockOriginalStore, *mockRevisionRepo) {
	originals := new(mockOriginalStore)
	revisions := new(mockRevisionRepo)
	return NewRevisionStore(originals, hiddenTags), originals, revisions
}

func TestPersistCreateNewRevision(t *testing.T) {
	store, originals, revisions := storeFixture()
	post := &domain.Post{ID: 1, Version: 3}
	chainBaseAt := time.Now().Add(-time.Minute)
	originals.On("Get", mock.Anything, uint64(1), chainBaseAt).Return(nil, false, nil)

	var created *domain.Revision
	revisions.On("Create", mock.AnythingOfType("*domain.Revision")).
		Run(func(args mock.Arguments) { created = args.Get(0).(*domain.Revision) }).
		Return(nil)

	diff := map[string]FieldChange{
		FieldContent: {Old: "before", New: "after"},
	}
	outcome, err := store.Persist(context.Background(), revisions, post, diff, true, domain.Editor{ID: 5}, chainBaseAt)

	require.NoError(t, err)
	assert.True(t, outcome.Created)
	assert.False(t, outcome.Hidden)
	require.NotNil(t, created)
	assert.Equal(t, uint64(1), created.PostID)
	assert.Equal(t, uint(3), created.Version)
	assert.Equal(t, uint64(5), created.EditorID)
	assert.Equal(t, []interface{}{"before", "after"}, created.Modifications[FieldContent])
}

func TestPersistCreateSubstitutesCachedBaseline(t *testing.T) {
	// The "old" side of a content change must be the pre-chain baseline, not
	// the drifted content from the last amend in the chain.
	store, originals, revisions := storeFixture()
	post := &domain.Post{ID: 1, Version: 3}
	chainBaseAt := time.Now().Add(-time.Minute)
	originals.On("Get", mock.Anything, uint64(1), chainBaseAt).
		Return(&cache.OriginalContent{Content: "true original", CookedContent: "<p>true original</p>"}, true, nil)

	var created *domain.Revision
	revisions.On("Create", mock.AnythingOfType("*domain.Revision")).
		Run(func(args mock.Arguments) { created = args.Get(0).(*domain.Revision) }).
		Return(nil)

	diff := map[string]FieldChange{
		FieldContent:       {Old: "drifted", New: "after"},
		FieldCookedContent: {Old: "<p>drifted</p>", New: "<p>after</p>"},
	}
	_, err := store.Persist(context.Background(), revisions, post, diff, true, domain.Editor{ID: 5}, chainBaseAt)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, []interface{}{"true original", "after"}, created.Modifications[FieldContent])
	assert.Equal(t, []interface{}{"<p>true original</p>", "<p>after</p>"}, created.Modifications[FieldCookedContent])
}

func TestPersistCreateHiddenTagOnly(t *testing.T) {
	store, _, revisions := storeFixture("moderator-note")
	post := &domain.Post{ID: 1, Version: 2}
	revisions.On("Create", mock.MatchedBy(func(r *domain.Revision) bool { return r.Hidden })).Return(nil)

	diff := map[string]FieldChange{
		FieldTags: {Old: []string{"a"}, New: []string{"a", "moderator-note"}},
	}
	outcome, err := store.Persist(context.Background(), revisions, post, diff, true, domain.Editor{ID: 5}, time.Time{})

	require.NoError(t, err)
	assert.True(t, outcome.Hidden)
	revisions.AssertExpectations(t)
}

func TestPersistCreateMixedTagChangeNotHidden(t *testing.T) {
	store, _, revisions := storeFixture("moderator-note")
	post := &domain.Post{ID: 1, Version: 2}
	revisions.On("Create", mock.MatchedBy(func(r *domain.Revision) bool { return !r.Hidden })).Return(nil)

	diff := map[string]FieldChange{
		FieldTags: {Old: []string{"a"}, New: []string{"b", "moderator-note"}},
	}
	outcome, err := store.Persist(context.Background(), revisions, post, diff, true, domain.Editor{ID: 5}, time.Time{})

	require.NoError(t, err)
	assert.False(t, outcome.Hidden)
	revisions.AssertExpectations(t)
}

func TestPersistCreateHiddenTagWithContentNotHidden(t *testing.T) {
	store, originals, revisions := storeFixture("moderator-note")
	post := &domain.Post{ID: 1, Version: 2}
	originals.On("Get", mock.Anything, uint64(1), mock.Anything).Return(nil, false, nil)
	revisions.On("Create", mock.MatchedBy(func(r *domain.Revision) bool { return !r.Hidden })).Return(nil)

	diff := map[string]FieldChange{
		FieldTags:    {Old: []string{}, New: []string{"moderator-note"}},
		FieldContent: {Old: "a", New: "b"},
	}
	outcome, err := store.Persist(context.Background(), revisions, post, diff, true, domain.Editor{ID: 5}, time.Time{})

	require.NoError(t, err)
	assert.False(t, outcome.Hidden)
}

func TestPersistAmendMergesKeepingOriginalOld(t *testing.T) {
	store, _, revisions := storeFixture()
	post := &domain.Post{ID: 1, Version: 3}
	existing := &domain.Revision{
		PostID:        1,
		Version:       3,
		Modifications: domain.Modifications{FieldContent: {"base", "first edit"}},
	}
	revisions.On("FindByPostIDAndVersion", uint64(1), uint(3)).Return(existing, nil)

	var saved *domain.Revision
	revisions.On("Save", mock.AnythingOfType("*domain.Revision")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*domain.Revision) }).
		Return(nil)

	diff := map[string]FieldChange{
		FieldContent: {Old: "first edit", New: "second edit"},
		FieldTitle:   {Old: "old title", New: "new title"},
	}

	outcome, err := store.Persist(context.Background(), revisions, post, diff, false, domain.Editor{ID: 5}, time.Time{})

	require.NoError(t, err)
	assert.False(t, outcome.Deleted)
	require.NotNil(t, saved)
	assert.Equal(t, []interface{}{"base", "second edit"}, saved.Modifications[FieldContent])
	assert.Equal(t, []interface{}{"old title", "new title"}, saved.Modifications[FieldTitle])
}

func TestPersistAmendRevertRemovesField(t *testing.T) {
	store, _, revisions := storeFixture()
	post := &domain.Post{ID: 1, Version: 3}
	existing := &domain.Revision{
		PostID:  1,
		Version: 3,
		Modifications: domain.Modifications{
			FieldContent: {"base", "edited"},
			FieldTitle:   {"old title", "new title"},
		},
	}
	revisions.On("FindByPostIDAndVersion", uint64(1), uint(3)).Return(existing, nil)

	var saved *domain.Revision
	revisions.On("Save", mock.AnythingOfType("*domain.Revision")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*domain.Revision) }).
		Return(nil)

	diff := map[string]FieldChange{FieldContent: {Old: "edited", New: "base"}}
	outcome, err := store.Persist(context.Background(), revisions, post, diff, false, domain.Editor{ID: 5}, time.Time{})

	require.NoError(t, err)
	assert.False(t, outcome.Deleted)
	require.NotNil(t, saved)
	assert.NotContains(t, saved.Modifications, FieldContent)
	assert.Contains(t, saved.Modifications, FieldTitle)
}

func TestPersistAmendFullRevertDeletesRevision(t *testing.T) {
	// When the amend nets every field back to its original value the revision
	// row has nothing left to say and is removed entirely.
	store, _, revisions := storeFixture()
	post := &domain.Post{ID: 1, Version: 3}
	existing := &domain.Revision{
		PostID:        1,
		Version:       3,
		Modifications: domain.Modifications{FieldContent: {"base", "edited"}},
	}
	revisions.On("FindByPostIDAndVersion", uint64(1), uint(3)).Return(existing, nil)
	revisions.On("Delete", uint64(1), uint(3)).Return(nil)

	diff := map[string]FieldChange{FieldContent: {Old: "edited", New: "base"}}
	outcome, err := store.Persist(context.Background(), revisions, post, diff, false, domain.Editor{ID: 5}, time.Time{})

	require.NoError(t, err)
	assert.True(t, outcome.Deleted)
	revisions.AssertExpectations(t)
}

func TestPersistAmendRevertSurvivesJSONRoundTrip(t *testing.T) {
	// Modifications loaded from the database come back as generic JSON types;
	// a revert must still net out against them.
	store, _, revisions := storeFixture()
	post := &domain.Post{ID: 1, Version: 3}
	existing := &domain.Revision{
		PostID:        1,
		Version:       3,
		Modifications: domain.Modifications{FieldTags: {[]interface{}{"a", "b"}, []interface{}{"a", "c"}}},
	}
	revisions.On("FindByPostIDAndVersion", uint64(1), uint(3)).Return(existing, nil)
	revisions.On("Delete", uint64(1), uint(3)).Return(nil)

	diff := map[string]FieldChange{FieldTags: {Old: []string{"a", "c"}, New: []string{"a", "b"}}}
	outcome, err := store.Persist(context.Background(), revisions, post, diff, false, domain.Editor{ID: 5}, time.Time{})

	require.NoError(t, err)
	assert.True(t, outcome.Deleted)
}

func TestPersistAmendWithoutRevisionRowIsNoop(t *testing.T) {
	// Grace-period edits on a post that never got a revision row (a freshly
	// created post) have no history to amend.
	store, _, revisions := storeFixture()
	post := &domain.Post{ID: 1, Version: 1}
	revisions.On("FindByPostIDAndVersion", uint64(1), uint(1)).Return(nil, common.ErrRevisionNotFound)

	diff := map[string]FieldChange{FieldContent: {Old: "a", New: "b"}}
	outcome, err := store.Persist(context.Background(), revisions, post, diff, false, domain.Editor{ID: 5}, time.Time{})

	require.NoError(t, err)
	assert.Nil(t, outcome.Revision)
	assert.False(t, outcome.Created)
	assert.False(t, outcome.Deleted)
}
