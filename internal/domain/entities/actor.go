package entities

// Actor is the principal performing an operation, resolved by the auth
// middleware before any use case runs.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// CanAccess implements the ownership rule applied to folders and files
// alike: admins bypass ownership, everyone else must own the entity.
func (a Actor) CanAccess(ownerID int64) bool {
	return a.IsAdmin || a.UserID == ownerID
}
