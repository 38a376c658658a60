package api

import "time"

// File mirrors a catalogue entry as returned by the server.
type File struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	FileName     string    `json:"fileName"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"contentType"`
	StorageURL   string    `json:"storageUrl"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty"`
	OwnerID      string    `json:"ownerId"`
	Owner        *Owner    `json:"owner,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Owner struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// User mirrors the server's user model.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CataloguePage is returned by GET /files.
type CataloguePage struct {
	Files       []File `json:"files"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	TotalFiles  int64  `json:"totalFiles"`
}

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserEnvelope wraps the user returned by register and role changes.
type UserEnvelope struct {
	User User `json:"user"`
}

type Message struct {
	Message string `json:"message"`
}
