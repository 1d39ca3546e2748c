package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probank/probank/internal/content"
)

func TestTagResolver_CreatesWhenAbsent(t *testing.T) {
	resolver := content.NewTagResolver(newMemTags())
	ctx := context.Background()

	tag, err := resolver.Resolve(ctx, "MATH", "  calculus  ")
	require.NoError(t, err)
	assert.Equal(t, "calculus", tag.Name)
	assert.Equal(t, "MATH", tag.Subject)
	assert.NotEmpty(t, tag.ID)
}

func TestTagResolver_ReturnsExisting(t *testing.T) {
	resolver := content.NewTagResolver(newMemTags())
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "MATH", "calculus")
	require.NoError(t, err)
	second, err := resolver.Resolve(ctx, "MATH", "calculus")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestTagResolver_ScopedBySubject(t *testing.T) {
	resolver := content.NewTagResolver(newMemTags())
	ctx := context.Background()

	math, err := resolver.Resolve(ctx, "MATH", "basics")
	require.NoError(t, err)
	physics, err := resolver.Resolve(ctx, "PHYSICS", "basics")
	require.NoError(t, err)
	assert.NotEqual(t, math.ID, physics.ID)
}

func TestTagResolver_Validation(t *testing.T) {
	resolver := content.NewTagResolver(newMemTags())
	ctx := context.Background()

	_, err := resolver.Resolve(ctx, "MATH", "   ")
	assert.True(t, content.IsKind(err, content.KindValidation))

	_, err = resolver.Resolve(ctx, "", "calculus")
	assert.True(t, content.IsKind(err, content.KindValidation))

	long := make([]rune, 51)
	for i := range long {
		long[i] = 'x'
	}
	_, err = resolver.Resolve(ctx, "MATH", string(long))
	assert.True(t, content.IsKind(err, content.KindValidation))
}

// conflictOnCreateTags simulates losing the insert race: the first
// Create reports a conflict and the row appears as if a concurrent
// publish inserted it.
type conflictOnCreateTags struct {
	*memTags
	raced bool
}

func (c *conflictOnCreateTags) Create(ctx context.Context, t *content.Tag) error {
	if !c.raced {
		c.raced = true
		winner := *t
		winner.ID = "winner-id"
		if err := c.memTags.Create(ctx, &winner); err != nil {
			return err
		}
		return content.Conflict("tag already exists")
	}
	return c.memTags.Create(ctx, t)
}

func TestTagResolver_RecoversFromInsertRace(t *testing.T) {
	resolver := content.NewTagResolver(&conflictOnCreateTags{memTags: newMemTags()})
	ctx := context.Background()

	tag, err := resolver.Resolve(ctx, "MATH", "calculus")
	require.NoError(t, err)
	assert.Equal(t, "winner-id", tag.ID)
}

func TestTagResolver_ResolveAllPreservesOrder(t *testing.T) {
	resolver := content.NewTagResolver(newMemTags())
	ctx := context.Background()

	ids, err := resolver.ResolveAll(ctx, "MATH", []string{"algebra", "geometry"})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	algebra, err := resolver.Resolve(ctx, "MATH", "algebra")
	require.NoError(t, err)
	assert.Equal(t, algebra.ID, ids[0])
}
