package database

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresFileRepository handles database operations for package files.
type PostgresFileRepository struct {
	db *DB
}

var _ FileRepository = (*PostgresFileRepository)(nil)

func NewFileRepository(db *DB) *PostgresFileRepository {
	return &PostgresFileRepository{db: db}
}

func (r *PostgresFileRepository) CreateFile(ctx context.Context, file *File) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO post_files (id, package_id, filename, file_extension, storage_key, size_bytes, content_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, file.ID, file.PackageID, file.Filename, file.FileExtension,
		file.StorageKey, file.SizeBytes, file.ContentHash).
		Scan(&file.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create file record: %w", err)
	}

	return nil
}

func (r *PostgresFileRepository) GetFile(ctx context.Context, packageID, fileID string) (*File, error) {
	// Scoping by package_id keeps cross-package file ids indistinguishable
	// from unknown ones.
	var file File
	err := r.db.QueryRowContext(ctx, `
		SELECT id, package_id, filename, file_extension, storage_key, size_bytes, content_hash, created_at
		FROM post_files
		WHERE id = $1 AND package_id = $2
	`, fileID, packageID).
		Scan(&file.ID, &file.PackageID, &file.Filename, &file.FileExtension,
			&file.StorageKey, &file.SizeBytes, &file.ContentHash, &file.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &file, nil
}

func (r *PostgresFileRepository) ListFiles(ctx context.Context, packageID string) ([]File, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, package_id, filename, file_extension, storage_key, size_bytes, content_hash, created_at
		FROM post_files
		WHERE package_id = $1
		ORDER BY created_at ASC, filename ASC
	`, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var file File
		err := rows.Scan(&file.ID, &file.PackageID, &file.Filename, &file.FileExtension,
			&file.StorageKey, &file.SizeBytes, &file.ContentHash, &file.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, file)
	}

	return files, rows.Err()
}
