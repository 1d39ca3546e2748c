package content

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const maxCommentLen = 2000

// NewComment is the input for comment creation.
type NewComment struct {
	ProblemID string
	AuthorID  string
	ParentID  string
	ReplyToID string
	Body      string
}

// CommentService creates, lists, and soft-deletes threaded comments on
// problems. Parent/reply linkage is validated once, at creation.
type CommentService struct {
	comments CommentRepo
	problems ProblemRepo
}

func NewCommentService(comments CommentRepo, problems ProblemRepo) *CommentService {
	return &CommentService{comments: comments, problems: problems}
}

// Create validates the body, checks the author can read the problem,
// resolves parentage, and stores the comment.
func (s *CommentService) Create(ctx context.Context, in NewComment) (*Comment, error) {
	if in.AuthorID == "" {
		return nil, Invalid("author id is required")
	}
	if in.ProblemID == "" {
		return nil, Invalid("problem id is required")
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, Invalid("comment body must not be blank")
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return nil, Invalid("comment body exceeds %d characters", maxCommentLen)
	}

	p, err := s.problems.GetByID(ctx, in.ProblemID)
	if err != nil {
		return nil, err
	}
	if !p.Access().CanRead(in.AuthorID) {
		return nil, NotFound("problem")
	}

	parentID, replyToID, err := s.resolveParentage(ctx, in.ProblemID, in.ParentID, in.ReplyToID)
	if err != nil {
		return nil, err
	}

	c := &Comment{
		ID:        uuid.New().String(),
		ProblemID: in.ProblemID,
		AuthorID:  in.AuthorID,
		ParentID:  parentID,
		ReplyToID: replyToID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// resolveParentage normalizes the parent/reply pair:
//   - neither given: top-level;
//   - only replyToId: the parent defaults to the comment being replied
//     to;
//   - any parent present: it must exist (soft-deleted parents count, so
//     chains under deleted comments stay valid) and belong to the same
//     problem; replyToId likewise, defaulting to the parent.
func (s *CommentService) resolveParentage(ctx context.Context, problemID, parentID, replyToID string) (string, string, error) {
	if parentID == "" && replyToID == "" {
		return "", "", nil
	}
	if parentID == "" {
		parentID = replyToID
	}

	parent, err := s.comments.GetByID(ctx, parentID)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return "", "", Invalid("parent comment does not exist")
		}
		return "", "", err
	}
	if parent.ProblemID != problemID {
		return "", "", Invalid("parent comment belongs to a different problem")
	}

	if replyToID == "" {
		return parentID, parentID, nil
	}
	if replyToID != parentID {
		rt, err := s.comments.GetByID(ctx, replyToID)
		if err != nil {
			if IsKind(err, KindNotFound) {
				return "", "", Invalid("reply-to comment does not exist")
			}
			return "", "", err
		}
		if rt.ProblemID != problemID {
			return "", "", Invalid("reply-to comment belongs to a different problem")
		}
	}
	return parentID, replyToID, nil
}

// Delete soft-deletes a comment: the body is nulled but the row and its
// thread pointers remain so replies keep a valid chain. The author or
// an admin may delete; deleting an already-deleted comment is a no-op.
func (s *CommentService) Delete(ctx context.Context, requesterID, id string, asAdmin bool) error {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c.Deleted {
		return nil
	}
	if !asAdmin && c.AuthorID != requesterID {
		return Forbidden("only the author or an admin may delete a comment")
	}
	return s.comments.SoftDelete(ctx, id)
}

// ListTopLevel returns top-level comments on a problem the requester
// can read, oldest first.
func (s *CommentService) ListTopLevel(ctx context.Context, requesterID, problemID string, page, pageSize int) ([]*Comment, error) {
	p, err := s.problems.GetByID(ctx, problemID)
	if err != nil {
		return nil, err
	}
	if !p.Access().CanRead(requesterID) {
		return nil, NotFound("problem")
	}
	limit, offset := pageBounds(page, pageSize)
	return s.comments.ListTopLevel(ctx, problemID, limit, offset)
}

// ListReplies returns the replies under a parent comment, oldest first.
func (s *CommentService) ListReplies(ctx context.Context, requesterID, parentID string, page, pageSize int) ([]*Comment, error) {
	parent, err := s.comments.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	p, err := s.problems.GetByID(ctx, parent.ProblemID)
	if err != nil {
		return nil, err
	}
	if !p.Access().CanRead(requesterID) {
		return nil, NotFound("comment")
	}
	limit, offset := pageBounds(page, pageSize)
	return s.comments.ListReplies(ctx, parentID, limit, offset)
}
