package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/Kris-Young-Kim/co-AT-sub000/core"
)

var (
	AllRoles = []string{core.RoleAdmin, core.RoleStaff, core.RoleViewer}

	rolePriorities = map[string]int{
		core.RoleAdmin:  30,
		core.RoleStaff:  20,
		core.RoleViewer: 10,
	}

	Roles = []Role{
		{Name: "Viewer", Value: core.RoleViewer},
		{Name: "Staff", Value: core.RoleStaff},
		{Name: "Admin", Value: core.RoleAdmin},
	}
)

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// User is a center employee who can sign in.
type User struct {
	ID           string         `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	Username     string         `json:"username" db:"username"`
	Email        string         `json:"email" db:"email"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	Roles        pq.StringArray `json:"roles" db:"roles"`
	PasswordHash []byte         `json:"-" db:"password_hash"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"` // UTC
	LastLogin    null.Time      `json:"last_login" db:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u User) IsAdmin() bool { return u.HasRole(core.RoleAdmin) }
func (u User) IsStaff() bool { return u.HasRole(core.RoleStaff) }

// Actor returns the identity the domain services authorize against.
func (u User) Actor() core.Actor {
	return core.Actor{UserID: u.ID, Roles: u.Roles}
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=4,username"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

// LoginRequest holds the credentials posted to the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (lr LoginRequest) Validate(validate *validator.Validate) error { return validate.Struct(lr) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
