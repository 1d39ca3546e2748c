package content

// Status is the lifecycle state of a problem.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusDisabled  Status = "disabled"
)

// CollectionStatus is the two-state lifecycle of a collection: there is
// no draft stage, collections go live on creation.
type CollectionStatus string

const (
	CollectionActive   CollectionStatus = "active"
	CollectionDisabled CollectionStatus = "disabled"
)

// Visibility gates read access to problems and collections.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

// ValidVisibility reports whether v is one of the three known values.
func ValidVisibility(v Visibility) bool {
	switch v {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate:
		return true
	}
	return false
}

// CoerceStatus maps a raw status string from storage onto the closed
// enumeration. Unrecognized or legacy values coerce to draft so the core
// never observes an invalid state; coercion happens once, at the store
// scan boundary.
func CoerceStatus(raw string) Status {
	switch Status(raw) {
	case StatusDraft, StatusPublished, StatusDisabled:
		return Status(raw)
	}
	return StatusDraft
}

// CoerceCollectionStatus is the collection-side counterpart of
// CoerceStatus; unrecognized values coerce to active.
func CoerceCollectionStatus(raw string) CollectionStatus {
	switch CollectionStatus(raw) {
	case CollectionActive, CollectionDisabled:
		return CollectionStatus(raw)
	}
	return CollectionActive
}
