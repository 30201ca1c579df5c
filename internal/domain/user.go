package domain

import "context"

// User represents a registered user. The password digest never leaves the
// backend.
// swagger:model User
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// NewUser returns a new User. ID is set by the repository on create.
func NewUser(email, passwordHash string) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
	}
}

// PasswordHasher produces and checks salted one-way password digests.
// Hashing the same password twice must yield different digests, both of
// which verify.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches digest. It never fails on a
	// malformed digest; it just returns false.
	Verify(password, digest string) bool
}

// TokenIssuer issues a signed bearer token for the given subject (user id).
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// TokenVerifier verifies a bearer token and returns its subject (user id).
type TokenVerifier interface {
	Verify(token string) (subjectID string, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// ListByIDs fetches all users whose id is in ids with a single query.
	// Ids that match no user are silently absent from the result.
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
}

// AuthService defines signup and login. Both return a bearer token so a
// fresh signup is immediately authenticated.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (token string, err error)
	LogIn(ctx context.Context, email, password string) (token string, err error)
}
