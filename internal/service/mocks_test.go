package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/damoang/angple-revisions/internal/cache"
	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/damoang/angple-revisions/internal/repository"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// fakeTxManager runs the unit of work directly, without a database. The
// repositories all treat a nil tx as "keep your current binding".
type fakeTxManager struct{}

func (fakeTxManager) Transaction(fc func(tx *gorm.DB) error, _ ...*sql.TxOptions) error {
	return fc(nil)
}

type noopHookLogger struct{}

func (noopHookLogger) Debug(string, ...interface{}) {}
func (noopHookLogger) Info(string, ...interface{})  {}
func (noopHookLogger) Warn(string, ...interface{})  {}
func (noopHookLogger) Error(string, ...interface{}) {}

type mockPostRepo struct {
	mock.Mock
}

func (m *mockPostRepo) WithTx(_ *gorm.DB) repository.PostRepository { return m }

func (m *mockPostRepo) FindByID(id uint64) (*domain.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostRepo) FindByIDForUpdate(id uint64) (*domain.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Post), args.Error(1)
}

func (m *mockPostRepo) Save(post *domain.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

type mockTopicRepo struct {
	mock.Mock
}

func (m *mockTopicRepo) WithTx(_ *gorm.DB) repository.TopicRepository { return m }

func (m *mockTopicRepo) FindByID(id uint64) (*domain.Topic, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *mockTopicRepo) Save(topic *domain.Topic) error {
	args := m.Called(topic)
	return args.Error(0)
}

type mockRevisionRepo struct {
	mock.Mock
}

func (m *mockRevisionRepo) WithTx(_ *gorm.DB) repository.RevisionRepository { return m }

func (m *mockRevisionRepo) Create(revision *domain.Revision) error {
	args := m.Called(revision)
	return args.Error(0)
}

func (m *mockRevisionRepo) Save(revision *domain.Revision) error {
	args := m.Called(revision)
	return args.Error(0)
}

func (m *mockRevisionRepo) Delete(postID uint64, version uint) error {
	args := m.Called(postID, version)
	return args.Error(0)
}

func (m *mockRevisionRepo) FindByPostIDAndVersion(postID uint64, version uint) (*domain.Revision, error) {
	args := m.Called(postID, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Revision), args.Error(1)
}

func (m *mockRevisionRepo) ListByPostID(postID uint64, includeHidden bool) ([]*domain.Revision, error) {
	args := m.Called(postID, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Revision), args.Error(1)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) FindByID(id uint64) (*domain.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

type mockFlagRepo struct {
	mock.Mock
}

func (m *mockFlagRepo) HasPendingFlag(postID uint64) (bool, error) {
	args := m.Called(postID)
	return args.Bool(0), args.Error(1)
}

type mockOriginalStore struct {
	mock.Mock
}

func (m *mockOriginalStore) Get(ctx context.Context, postID uint64, lastVersionAt time.Time) (*cache.OriginalContent, bool, error) {
	args := m.Called(ctx, postID, lastVersionAt)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*cache.OriginalContent), args.Bool(1), args.Error(2)
}

func (m *mockOriginalStore) Set(ctx context.Context, postID uint64, lastVersionAt time.Time, original cache.OriginalContent) error {
	args := m.Called(ctx, postID, lastVersionAt, original)
	return args.Error(0)
}

// memoryOriginalStore is a map-backed OriginalStore for tests that chain
// several Revise calls through one shared cache
type memoryOriginalStore struct {
	entries map[string]cache.OriginalContent
}

func newMemoryOriginalStore() *memoryOriginalStore {
	return &memoryOriginalStore{entries: make(map[string]cache.OriginalContent)}
}

func baselineKey(postID uint64, at time.Time) string {
	return fmt.Sprintf("%d:%d", postID, at.Unix())
}

func (s *memoryOriginalStore) Get(_ context.Context, postID uint64, lastVersionAt time.Time) (*cache.OriginalContent, bool, error) {
	original, ok := s.entries[baselineKey(postID, lastVersionAt)]
	if !ok {
		return nil, false, nil
	}
	return &original, true, nil
}

func (s *memoryOriginalStore) Set(_ context.Context, postID uint64, lastVersionAt time.Time, original cache.OriginalContent) error {
	s.entries[baselineKey(postID, lastVersionAt)] = original
	return nil
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Check(ctx context.Context, editorID uint64) error {
	args := m.Called(ctx, editorID)
	return args.Error(0)
}

// stubGuardian answers each capability question with a fixed bool
type stubGuardian struct {
	linksInTitle bool
	moveCategory bool
	tagTopics    bool
	featuredLink bool
	staff        bool
	highTrust    bool
}

func (g *stubGuardian) CanPlaceLinksInTitle(domain.Editor) bool      { return g.linksInTitle }
func (g *stubGuardian) CanMoveToCategory(domain.Editor, uint64) bool { return g.moveCategory }
func (g *stubGuardian) CanTagTopics(domain.Editor) bool              { return g.tagTopics }
func (g *stubGuardian) CanEditFeaturedLink(domain.Editor) bool       { return g.featuredLink }
func (g *stubGuardian) IsStaff(domain.Editor) bool                   { return g.staff }
func (g *stubGuardian) IsHighTrust(domain.Editor) bool               { return g.highTrust }

func strPtr(s string) *string { return &s }
func u64Ptr(n uint64) *uint64 { return &n }
