package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/probank/probank/internal/content"
)

func TestAccess_CanWrite(t *testing.T) {
	a := content.Access{OwnerID: "owner", Visibility: content.VisibilityPublic, Live: true}

	assert.True(t, a.CanWrite("owner"))
	assert.False(t, a.CanWrite("someone-else"))
	assert.False(t, a.CanWrite(""))
}

func TestAccess_CanRead(t *testing.T) {
	tests := []struct {
		name       string
		visibility content.Visibility
		live       bool
		requester  string
		want       bool
	}{
		{"owner reads own private draft", content.VisibilityPrivate, false, "owner", true},
		{"stranger blocked from private live", content.VisibilityPrivate, true, "stranger", false},
		{"anonymous reads public live", content.VisibilityPublic, true, "", true},
		{"stranger reads public live", content.VisibilityPublic, true, "stranger", true},
		{"stranger blocked from public draft", content.VisibilityPublic, false, "stranger", false},
		{"stranger blocked from unlisted live", content.VisibilityUnlisted, true, "stranger", false},
		{"owner reads own unlisted", content.VisibilityUnlisted, false, "owner", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := content.Access{OwnerID: "owner", Visibility: tt.visibility, Live: tt.live}
			assert.Equal(t, tt.want, a.CanRead(tt.requester))
		})
	}
}

func TestAccess_ShareKeyReadable(t *testing.T) {
	tests := []struct {
		name       string
		visibility content.Visibility
		live       bool
		want       bool
	}{
		{"unlisted live", content.VisibilityUnlisted, true, true},
		{"unlisted draft resolves as not found", content.VisibilityUnlisted, false, false},
		{"public live has no share path", content.VisibilityPublic, true, false},
		{"private live has no share path", content.VisibilityPrivate, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := content.Access{OwnerID: "owner", Visibility: tt.visibility, Live: tt.live}
			assert.Equal(t, tt.want, a.ShareKeyReadable())
		})
	}
}

func TestCoerceStatus(t *testing.T) {
	assert.Equal(t, content.StatusPublished, content.CoerceStatus("published"))
	assert.Equal(t, content.StatusDisabled, content.CoerceStatus("disabled"))
	// Legacy and garbage values coerce to draft at the boundary.
	assert.Equal(t, content.StatusDraft, content.CoerceStatus("PENDING_REVIEW"))
	assert.Equal(t, content.StatusDraft, content.CoerceStatus(""))

	assert.Equal(t, content.CollectionDisabled, content.CoerceCollectionStatus("disabled"))
	assert.Equal(t, content.CollectionActive, content.CoerceCollectionStatus("archived"))
}
