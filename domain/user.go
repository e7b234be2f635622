package domain

// Role identifies which part of the application a user may access.
type Role string

const (
	RoleAdmin     Role = "admin"
	RolePrincipal Role = "principal"
	RoleTeacher   Role = "teacher"
)

// Credentials are posted to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User represents the authenticated identity returned by /login and /me.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	NameEn   string `json:"name_en"`
	NameUr   string `json:"name_ur,omitempty"`
	Role     Role   `json:"role"`
}

func (u *User) HasRole(role Role) bool {
	return u != nil && u.Role == role
}
