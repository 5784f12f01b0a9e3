package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"anonymizer/internal/blob"
	"anonymizer/internal/model"
	"anonymizer/internal/repository"
)

var _ repository.ObjectRepository = (*BlobRepository)(nil)

// BlobRepository implements repository.ObjectRepository (and so blob.Store) on SQLite.
type BlobRepository struct {
	db *DB
}

// NewBlobRepository creates a new SQLite blob repository.
func NewBlobRepository(db *DB) *BlobRepository {
	return &BlobRepository{db: db}
}

// Download writes the stored object to localPath, replacing any existing file.
func (r *BlobRepository) Download(ctx context.Context, loc blob.Locator, localPath string) error {
	data, err := r.get(ctx, loc.Container(), loc.Key())
	if errors.Is(err, sql.ErrNoRows) {
		return blob.NotFoundError("download", loc, err)
	}
	if err != nil {
		return &blob.Error{Op: "download", Locator: loc, Code: blob.CodeUnknown, Err: err}
	}

	if err := os.WriteFile(localPath, data, 0644); err != nil {
		return &blob.Error{Op: "download", Locator: loc, Code: blob.CodeUnknown, Err: err}
	}
	return nil
}

// Upload stores the content of localPath, replacing an existing object.
func (r *BlobRepository) Upload(ctx context.Context, localPath string, loc blob.Locator) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return &blob.Error{Op: "upload", Locator: loc, Code: blob.CodeUnknown, Err: err}
	}

	if err := r.put(ctx, loc.Container(), loc.Key(), data); err != nil {
		return &blob.Error{Op: "upload", Locator: loc, Code: blob.CodeUnknown, Err: err}
	}
	return nil
}

// Put stores data under container/key.
func (r *BlobRepository) Put(container, key string, data []byte) error {
	return r.put(context.Background(), container, key, data)
}

// Get returns the object content, or blob.ErrNotFound.
func (r *BlobRepository) Get(container, key string) ([]byte, error) {
	data, err := r.get(context.Background(), container, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, blob.ErrNotFound
	}
	return data, err
}

func (r *BlobRepository) put(ctx context.Context, container, key string, data []byte) error {
	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO blobs (container, key, data, size, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (container, key) DO UPDATE SET
			data = excluded.data,
			size = excluded.size,
			updated_at = excluded.updated_at
	`, container, key, data, len(data))
	if err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}

func (r *BlobRepository) get(ctx context.Context, container, key string) ([]byte, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var data []byte
	err := r.db.Conn().QueryRowContext(ctx, `
		SELECT data FROM blobs WHERE container = ? AND key = ?
	`, container, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return data, nil
}

// List returns the metadata of every object in container, ordered by key.
func (r *BlobRepository) List(container string) ([]model.Object, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT container, key, size, updated_at
		FROM blobs WHERE container = ? ORDER BY key
	`, container)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	defer rows.Close()

	var objects []model.Object
	for rows.Next() {
		var obj model.Object
		if err := rows.Scan(&obj.Container, &obj.Key, &obj.Size, &obj.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		objects = append(objects, obj)
	}
	return objects, rows.Err()
}

// Stats returns object counts and total size.
func (r *BlobRepository) Stats() (*model.ObjectStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &model.ObjectStats{PerContainer: make(map[string]int)}

	rows, err := r.db.Conn().Query(`
		SELECT container, COUNT(*), COALESCE(SUM(size), 0)
		FROM blobs GROUP BY container
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var container string
		var count int
		var size int64
		if err := rows.Scan(&container, &count, &size); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		stats.PerContainer[container] = count
		stats.TotalObjects += count
		stats.TotalSizeBytes += size
	}
	return stats, rows.Err()
}

// Delete removes an object. Deleting a missing object is not an error.
func (r *BlobRepository) Delete(container, key string) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM blobs WHERE container = ? AND key = ?`, container, key); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
