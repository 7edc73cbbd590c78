package service

import (
	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/damoang/angple-revisions/internal/repository"
)

// RevisionQueryService reads revision history with hidden revisions
// filtered for non-staff viewers
type RevisionQueryService struct {
	revisions repository.RevisionRepository
	guardian  Guardian
}

// NewRevisionQueryService creates a RevisionQueryService
func NewRevisionQueryService(revisions repository.RevisionRepository, guardian Guardian) *RevisionQueryService {
	return &RevisionQueryService{revisions: revisions, guardian: guardian}
}

// ListRevisions returns a post's revision history, newest first
func (s *RevisionQueryService) ListRevisions(postID uint64, viewer domain.Editor) ([]*domain.Revision, error) {
	return s.revisions.ListByPostID(postID, s.guardian.IsStaff(viewer))
}

// GetRevision returns one revision; hidden revisions are only visible
// to staff
func (s *RevisionQueryService) GetRevision(postID uint64, version uint, viewer domain.Editor) (*domain.Revision, error) {
	revision, err := s.revisions.FindByPostIDAndVersion(postID, version)
	if err != nil {
		return nil, err
	}
	if revision.Hidden && !s.guardian.IsStaff(viewer) {
		return nil, common.ErrRevisionNotFound
	}
	return revision, nil
}
