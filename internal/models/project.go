package models

import "time"

// Workspace is the top-level tenant. Issue keys are unique within it.
type Workspace struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Project groups issues under a key prefix such as "WEB"
type Project struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	KeyPrefix   string    `json:"keyPrefix"`
	CreatedAt   time.Time `json:"createdAt"`
}

// User is a workspace member
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}
