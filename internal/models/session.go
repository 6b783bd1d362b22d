package models

import "time"

// Storage keys of a gateway session, mirroring what the desktop shell kept in
// its local store.
const (
	SessionKeyToken      = "token"
	SessionKeyRememberMe = "rememberMe"
)

type Session struct {
	ID           string    `json:"id"`
	Token        string    `json:"-"`
	RememberMe   bool      `json:"remember_me"`
	LastAccessed time.Time `json:"last_accessed"`
}
