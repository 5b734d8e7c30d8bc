package user

import (
	"context"
	"time"
)

// User is an account. Its id scopes the owner's transcript history.
type User struct {
	ID        string
	Email     string
	Password  string // bcrypt hash
	CreatedAt time.Time
}

// Credentials is the body of both register and login.
// @Description Email and password
type Credentials struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"securePassword123"`
}

// Account is the public view of a user.
// @Description Account identity
type Account struct {
	ID    string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Email string `json:"email" example:"ada@example.com"`
}

// Session is returned by register and login.
// @Description Bearer token and the account it belongs to
type Session struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
}

func (u *User) Account() Account {
	return Account{ID: u.ID, Email: u.Email}
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
