package core

const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

// Actor is the authenticated caller of a domain operation.
type Actor struct {
	UserID string
	Roles  []string
}

func (a Actor) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range a.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// StaffID returns a pointer to the actor's user id, nil when anonymous.
func (a Actor) StaffID() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}

// Authorize refuses callers that hold neither the admin nor the staff role.
func Authorize(a Actor) error {
	if a.HasAnyRole(RoleAdmin, RoleStaff) {
		return nil
	}
	return ErrAuthorizationDenied
}
