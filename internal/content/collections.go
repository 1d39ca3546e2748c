package content

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxCollectionNameLen = 120

// CollectionDraft carries the owner-editable fields of a collection.
type CollectionDraft struct {
	Name        string
	Description string
	Visibility  Visibility
	ShareKey    string
}

// CollectionService drives the two-state collection lifecycle
// (active → disabled) and curation of member problems. Access rules are
// the same policy as problems, with active standing in for published.
type CollectionService struct {
	collections CollectionRepo
	problems    ProblemRepo
}

func NewCollectionService(collections CollectionRepo, problems ProblemRepo) *CollectionService {
	return &CollectionService{collections: collections, problems: problems}
}

// Create validates and stores a collection, live from creation.
func (s *CollectionService) Create(ctx context.Context, ownerID string, in CollectionDraft) (*Collection, error) {
	if ownerID == "" {
		return nil, Invalid("owner id is required")
	}
	if in.Visibility == "" {
		in.Visibility = VisibilityPrivate
	}
	if err := validateCollectionDraft(in); err != nil {
		return nil, err
	}

	key, err := resolveShareKey(in.Visibility, in.ShareKey, "")
	if err != nil {
		return nil, Internal("generate share key", err)
	}

	now := time.Now().UTC()
	c := &Collection{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Status:      CollectionActive,
		Visibility:  in.Visibility,
		ShareKey:    key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.collections.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the collection when the requester may read it.
func (s *CollectionService) Get(ctx context.Context, requesterID, id string) (*Collection, error) {
	c, err := s.collections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Access().CanRead(requesterID) {
		return nil, NotFound("collection")
	}
	return c, nil
}

// GetByShareKey resolves an unlisted collection via its share key;
// disabled collections resolve as not-found.
func (s *CollectionService) GetByShareKey(ctx context.Context, key string) (*Collection, error) {
	if key == "" {
		return nil, NotFound("collection")
	}
	c, err := s.collections.GetByShareKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !c.Access().ShareKeyReadable() {
		return nil, NotFound("collection")
	}
	return c, nil
}

// Update re-validates and persists the editable fields; status is never
// touched. Share-key handling mirrors problems.
func (s *CollectionService) Update(ctx context.Context, requesterID, id string, in CollectionDraft) (*Collection, error) {
	c, err := s.collections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Access().CanWrite(requesterID) {
		return nil, Forbidden("only the owner may edit a collection")
	}
	if in.Visibility == "" {
		in.Visibility = c.Visibility
	}
	if err := validateCollectionDraft(in); err != nil {
		return nil, err
	}

	key, err := resolveShareKey(in.Visibility, in.ShareKey, c.ShareKey)
	if err != nil {
		return nil, Internal("generate share key", err)
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Description = in.Description
	c.Visibility = in.Visibility
	c.ShareKey = key
	c.UpdatedAt = time.Now().UTC()

	if err := s.collections.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Disable moves an active collection to disabled (terminal). Disabling
// an already-disabled collection is a no-op.
func (s *CollectionService) Disable(ctx context.Context, requesterID, id string, asAdmin bool) (*Collection, error) {
	c, err := s.collections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asAdmin && !c.Access().CanWrite(requesterID) {
		return nil, Forbidden("only the owner or an admin may disable a collection")
	}
	if c.Status == CollectionDisabled {
		return c, nil
	}
	if err := s.collections.SetStatus(ctx, id, CollectionDisabled); err != nil {
		return nil, err
	}
	c.Status = CollectionDisabled
	return c, nil
}

// AddProblem appends a problem to the collection. The requester must
// own the collection and be able to read the problem; an unreadable
// problem surfaces as not-found.
func (s *CollectionService) AddProblem(ctx context.Context, requesterID, collectionID, problemID string) error {
	c, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return err
	}
	if !c.Access().CanWrite(requesterID) {
		return Forbidden("only the owner may curate a collection")
	}
	p, err := s.problems.GetByID(ctx, problemID)
	if err != nil {
		return err
	}
	if !p.Access().CanRead(requesterID) {
		return NotFound("problem")
	}
	return s.collections.AddProblem(ctx, collectionID, problemID)
}

// RemoveProblem removes a member problem.
func (s *CollectionService) RemoveProblem(ctx context.Context, requesterID, collectionID, problemID string) error {
	c, err := s.collections.GetByID(ctx, collectionID)
	if err != nil {
		return err
	}
	if !c.Access().CanWrite(requesterID) {
		return Forbidden("only the owner may curate a collection")
	}
	return s.collections.RemoveProblem(ctx, collectionID, problemID)
}

// ListProblems returns member problems the requester can currently
// read. A public collection may hold private problems; those are
// filtered out rather than leaked.
func (s *CollectionService) ListProblems(ctx context.Context, requesterID, id string, page, pageSize int) ([]*Problem, error) {
	c, err := s.collections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Access().CanRead(requesterID) {
		return nil, NotFound("collection")
	}
	return s.listReadable(ctx, requesterID, id, page, pageSize)
}

// ListProblemsByShareKey is the share-link variant of ListProblems;
// members are filtered as an anonymous reader.
func (s *CollectionService) ListProblemsByShareKey(ctx context.Context, key string, page, pageSize int) ([]*Problem, error) {
	c, err := s.GetByShareKey(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.listReadable(ctx, "", c.ID, page, pageSize)
}

func (s *CollectionService) listReadable(ctx context.Context, requesterID, collectionID string, page, pageSize int) ([]*Problem, error) {
	limit, offset := pageBounds(page, pageSize)
	members, err := s.collections.ListProblems(ctx, collectionID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*Problem, 0, len(members))
	for _, p := range members {
		if p.Access().CanRead(requesterID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func validateCollectionDraft(in CollectionDraft) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Invalid("name is required")
	}
	if utf8.RuneCountInString(name) > maxCollectionNameLen {
		return Invalid("name exceeds %d characters", maxCollectionNameLen)
	}
	if !ValidVisibility(in.Visibility) {
		return Invalid("visibility must be one of: public, unlisted, private")
	}
	return nil
}
