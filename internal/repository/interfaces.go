package repository

import (
	"anonymizer/internal/blob"
	"anonymizer/internal/model"
)

// ObjectRepository is a blob.Store with direct access to object content and metadata.
type ObjectRepository interface {
	blob.Store

	// Create operations
	Put(container, key string, data []byte) error

	// Read operations
	Get(container, key string) ([]byte, error)
	List(container string) ([]model.Object, error)
	Stats() (*model.ObjectStats, error)

	// Delete operations
	Delete(container, key string) error
}
