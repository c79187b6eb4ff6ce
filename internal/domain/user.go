package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const minPasswordLen = 4

// User is a registered account. Only the salted hash of the password is
// ever stored.
type User struct {
	ID             int64     `json:"user_id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"hashed_password"`
	Salt           string    `json:"salt"`
	RegisteredAt   time.Time `json:"registration_date"`
}

// NewUser validates credentials and creates a user with a fresh salt.
func NewUser(id int64, username, password string, now time.Time) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if len(password) < minPasswordLen {
		return User{}, &ValidationError{Field: "password", Reason: "must be at least 4 characters"}
	}
	salt, err := newSalt()
	if err != nil {
		return User{}, err
	}
	return User{
		ID:             id,
		Username:       username,
		HashedPassword: hashPassword(password, salt),
		Salt:           salt,
		RegisteredAt:   now,
	}, nil
}

// VerifyPassword checks a candidate password against the stored hash.
func (u User) VerifyPassword(password string) bool {
	return hashPassword(password, u.Salt) == u.HashedPassword
}

func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

func newSalt() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Session identifies the logged-in user between CLI invocations.
type Session struct {
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	LoggedInAt time.Time `json:"logged_in_at"`
}
