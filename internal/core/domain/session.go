// internal/core/domain/session.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoleAdmin is the privileged role value. It only gates what is rendered;
// the backend enforces the real authorization.
const RoleAdmin = "ADMIN"

// DefaultPageSize is the page size used when none is configured
const DefaultPageSize = 10

// NoticeLevel classifies a flash notice
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeDanger  NoticeLevel = "danger"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a transient, dismissible message shown on the next render
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// UserProfile is the signed-in user as returned by the login call
type UserProfile struct {
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the profile carries the privileged role
func (u UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LoginRequest is the POST /auth/login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the data of a successful login envelope
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Profile extracts the user profile from a login result
func (r *LoginResult) Profile() UserProfile {
	return UserProfile{
		Username: r.Username,
		FullName: r.FullName,
		Role:     r.Role,
	}
}

// ViewState is the pagination state of the single active item list
type ViewState struct {
	CurrentPage int    `json:"current_page"`
	PageSize    int    `json:"page_size"`
	SearchTerm  string `json:"search_term,omitempty"`
}

// Session holds everything the console keeps for one signed-in user.
// It is created at login and deleted at logout.
type Session struct {
	ID        uuid.UUID   `json:"id"`
	Token     string      `json:"token"`
	User      UserProfile `json:"user"`
	View      ViewState   `json:"view"`
	Flash     []Notice    `json:"flash,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewSession creates a session for a freshly authenticated user
func NewSession(token string, user UserProfile, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{
		ID:        uuid.New(),
		Token:     token,
		User:      user,
		View:      ViewState{PageSize: pageSize},
		CreatedAt: time.Now().UTC(),
	}
}

// AddNotice queues a notice for the next render
func (s *Session) AddNotice(level NoticeLevel, message string) {
	s.Flash = append(s.Flash, Notice{Level: level, Message: message})
}

// TakeNotices returns the queued notices and clears them
func (s *Session) TakeNotices() []Notice {
	notices := s.Flash
	s.Flash = nil
	return notices
}
