package users

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/rbac"
)

var (
	// ErrUserNotFound is returned when no user matches.
	ErrUserNotFound = httpx.NewError(httpx.ErrNotFound, "User not found")
	// ErrEmailTaken is returned when another user already owns the email.
	ErrEmailTaken = httpx.NewError(httpx.ErrDuplicate, "Email already registered")
	// ErrUnknownRole is returned when an assignment references a missing role.
	ErrUnknownRole = httpx.NewError(httpx.ErrValidation, "Unknown role")
)

// Record is a stored user document. Roles hold references only.
type Record struct {
	ID        bson.ObjectID   `bson:"_id,omitempty"`
	Username  string          `bson:"username"`
	Email     string          `bson:"email"`
	Password  string          `bson:"password"`
	Roles     []bson.ObjectID `bson:"roles"`
	CreatedAt time.Time       `bson:"createdAt"`
	UpdatedAt time.Time       `bson:"updatedAt"`
}

// Changes describes a partial update. Nil pointers leave the field untouched.
type Changes struct {
	Username     string
	Email        string
	PasswordHash *string
	Roles        *[]bson.ObjectID
}

// User is the API view of a user with its roles resolved.
type User struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Roles     []rbac.Role `json:"roles"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CreateInput is the body of a user create request.
type CreateInput struct {
	Username string   `json:"username" validate:"required,min=2,max=64"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Roles    []string `json:"roles" validate:"omitempty,dive,required"`
}

// UpdateInput is the body of a user update request. A blank password keeps
// the stored hash and absent roles keep the current assignment.
type UpdateInput struct {
	Username string    `json:"username" validate:"required,min=2,max=64"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"omitempty,min=6"`
	Roles    *[]string `json:"roles" validate:"omitempty,dive,required"`
}

func toUser(rec Record, roles []rbac.Role) User {
	if roles == nil {
		roles = []rbac.Role{}
	}
	return User{
		ID:        rec.ID.Hex(),
		Username:  rec.Username,
		Email:     rec.Email,
		Roles:     roles,
		CreatedAt: rec.CreatedAt,
	}
}
