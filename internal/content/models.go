package content

import "time"

// Problem is an authored problem-bank entry. Status moves
// draft → published → disabled; disabled is terminal. ShareKey is
// non-empty exactly when Visibility is unlisted. PublishedAt is set once
// on first publish and never cleared.
type Problem struct {
	ID            string
	OwnerID       string
	Title         string
	Body          string
	Subject       string
	Difficulty    int
	Status        Status
	Visibility    Visibility
	ShareKey      string
	PublishedAt   *time.Time
	ViewCount     int64
	LikeCount     int64
	FavoriteCount int64
	TagIDs        []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Access returns the visibility-policy view of the problem.
func (p *Problem) Access() Access {
	return Access{
		OwnerID:    p.OwnerID,
		Visibility: p.Visibility,
		Live:       p.Status == StatusPublished,
	}
}

// Collection is a curated set of problems. Collections have no draft
// stage; they are active from creation until disabled.
type Collection struct {
	ID            string
	OwnerID       string
	Name          string
	Description   string
	Status        CollectionStatus
	Visibility    Visibility
	ShareKey      string
	FavoriteCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Access returns the visibility-policy view of the collection.
func (c *Collection) Access() Access {
	return Access{
		OwnerID:    c.OwnerID,
		Visibility: c.Visibility,
		Live:       c.Status == CollectionActive,
	}
}

// Tag is a (subject, name) pair with a stable id. Tags are created
// lazily at publish time and never deleted.
type Tag struct {
	ID        string
	Subject   string
	Name      string
	CreatedAt time.Time
}

// Comment is a threaded comment on a problem. ParentID and ReplyToID
// are empty for top-level comments; for replies both always resolve to
// concrete comments on the same problem. Deleted comments keep their
// row (body nulled) so descendant replies keep a valid parent chain.
type Comment struct {
	ID        string
	ProblemID string
	AuthorID  string
	ParentID  string
	ReplyToID string
	Body      string
	LikeCount int64
	Deleted   bool
	CreatedAt time.Time
}
