package content

// Access is the slice of a content item the visibility policy needs:
// who owns it, whether it is in its live state (published problems,
// active collections), and how it is shared. Pure predicates only; every
// use case checks these before mutating anything.
type Access struct {
	OwnerID    string
	Visibility Visibility
	Live       bool
}

// CanWrite reports whether requesterID may mutate the item.
func (a Access) CanWrite(requesterID string) bool {
	return requesterID != "" && requesterID == a.OwnerID
}

// CanRead reports whether requesterID may read the item directly: the
// owner always can, everyone else only when the item is live and public.
func (a Access) CanRead(requesterID string) bool {
	if a.CanWrite(requesterID) {
		return true
	}
	return a.Live && a.Visibility == VisibilityPublic
}

// ShareKeyReadable reports whether the item resolves via its share key.
// Callers arriving by share key bypass the owner/public check entirely,
// but a draft or disabled unlisted item must resolve as not-found, never
// forbidden, so existence is not leaked.
func (a Access) ShareKeyReadable() bool {
	return a.Live && a.Visibility == VisibilityUnlisted
}
