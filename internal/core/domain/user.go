package domain

import "time"

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// ValidRole reports whether r is one of the known user roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin || r == RoleModerator
}

// User is the backend's identity record as seen by the client. It is
// replaced wholesale on every fetch or update, never mutated field by field.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserUpdate carries the fields a user may change on their own profile.
// Nil fields are left untouched by the backend.
type UserUpdate struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// PageMeta describes one page of a paginated listing.
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// UserPage is one page of the user directory.
type UserPage struct {
	Users []User   `json:"data"`
	Meta  PageMeta `json:"meta"`
}
