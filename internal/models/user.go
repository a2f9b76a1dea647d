package models

import (
	"time"
)

type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type MeResponse struct {
	ID int64 `json:"id"`
}

// StatusResponse is the plain acknowledgement the storefront expects from mutating calls.
type StatusResponse struct {
	OK      bool  `json:"ok"`
	Deleted int64 `json:"deleted,omitempty"`
}
