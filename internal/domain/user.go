package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when a password would be stored blank.
var ErrEmptyPassword = errors.New("password must not be empty")

// User is a registered account. PasswordHash always holds a bcrypt hash;
// RefreshToken is the single live refresh token, nil when logged out.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage"`
	PasswordHash string    `json:"-"`
	RefreshToken *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser builds a user with normalized identity fields and a hashed password.
func NewUser(username, email, fullName, password string, cost int) (*User, error) {
	user := &User{
		Username: NormalizeIdentity(username),
		Email:    NormalizeIdentity(email),
		FullName: strings.TrimSpace(fullName),
	}
	if err := user.SetPassword(password, cost); err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword replaces the stored hash with a hash of password.
func (u *User) SetPassword(password string, cost int) error {
	if password == "" {
		return ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// PasswordMatches compares password with the stored hash in constant time.
func (u *User) PasswordMatches(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Public returns a copy without credentials.
func (u *User) Public() *User {
	clone := *u
	clone.PasswordHash = ""
	clone.RefreshToken = nil
	return &clone
}

// NormalizeIdentity case-folds and trims a username or email.
func NormalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ChannelProfile is a user as seen on their channel page.
type ChannelProfile struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	FullName          string `json:"fullName"`
	Avatar            string `json:"avatar"`
	CoverImage        string `json:"coverImage"`
	SubscribersCount  int64  `json:"subscribersCount"`
	SubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed      bool   `json:"isSubscribed"`
}

// UserSummary is the projection embedded in listings.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName,omitempty"`
	Avatar   string `json:"avatar"`
}
