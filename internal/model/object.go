package model

import "time"

// Object represents a stored blob's metadata.
type Object struct {
	Container string    `json:"container"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ObjectStats contains statistics about stored objects.
type ObjectStats struct {
	TotalObjects   int            `json:"total_objects"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	PerContainer   map[string]int `json:"per_container"`
}
