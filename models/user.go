package models

// Actor is the authenticated caller as supplied by the identity provider.
type Actor struct {
	UserID string `json:"userId"`
	Staff  bool   `json:"staff"`
}

// CanActOn reports whether the actor may manage a record owned by ownerID.
func (a Actor) CanActOn(ownerID string) bool {
	return a.Staff || (a.UserID != "" && a.UserID == ownerID)
}
