package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresPackageRepository handles database operations for packages.
type PostgresPackageRepository struct {
	db *DB
}

var _ PackageRepository = (*PostgresPackageRepository)(nil)

func NewPackageRepository(db *DB) *PostgresPackageRepository {
	return &PostgresPackageRepository{db: db}
}

const packageColumns = `id, name, machine_type, controller_type, platform, status,
		error_message, error_detail, file_count, section_count, storage_prefix,
		created_at, updated_at`

func scanPackage(row interface{ Scan(...any) error }) (*Package, error) {
	var pkg Package
	err := row.Scan(&pkg.ID, &pkg.Name, &pkg.MachineType, &pkg.ControllerType,
		&pkg.Platform, &pkg.Status, &pkg.ErrorMessage, &pkg.ErrorDetail,
		&pkg.FileCount, &pkg.SectionCount, &pkg.StoragePrefix,
		&pkg.CreatedAt, &pkg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *PostgresPackageRepository) CreatePackage(ctx context.Context, pkg *Package) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO post_packages (id, name, platform, status, storage_prefix)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, pkg.ID, pkg.Name, pkg.Platform, pkg.Status, pkg.StoragePrefix).
		Scan(&pkg.CreatedAt, &pkg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}

	return nil
}

func (r *PostgresPackageRepository) GetPackage(ctx context.Context, id string) (*Package, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+packageColumns+`
		FROM post_packages
		WHERE id = $1
	`, id)

	pkg, err := scanPackage(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %w", err)
	}

	return pkg, nil
}

func (r *PostgresPackageRepository) ListPackages(ctx context.Context) ([]Package, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+packageColumns+`
		FROM post_packages
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	var packages []Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		packages = append(packages, *pkg)
	}

	return packages, rows.Err()
}

func (r *PostgresPackageRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE post_packages
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update package status: %w", err)
	}

	return nil
}

func (r *PostgresPackageRepository) MarkReady(ctx context.Context, id string, fileCount, sectionCount int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE post_packages
		SET status = $2, file_count = $3, section_count = $4, updated_at = NOW()
		WHERE id = $1
	`, id, StatusReady, fileCount, sectionCount)
	if err != nil {
		return fmt.Errorf("failed to mark package ready: %w", err)
	}

	return nil
}

func (r *PostgresPackageRepository) MarkError(ctx context.Context, id string, message, detail string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE post_packages
		SET status = $2, error_message = $3, error_detail = $4, updated_at = NOW()
		WHERE id = $1
	`, id, StatusError, message, detail)
	if err != nil {
		return fmt.Errorf("failed to mark package errored: %w", err)
	}

	return nil
}

func (r *PostgresPackageRepository) ListStalled(ctx context.Context, updatedBefore time.Time) ([]Package, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+packageColumns+`
		FROM post_packages
		WHERE status NOT IN ($1, $2) AND updated_at < $3
		ORDER BY updated_at ASC
	`, StatusReady, StatusError, updatedBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list stalled packages: %w", err)
	}
	defer rows.Close()

	var packages []Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		packages = append(packages, *pkg)
	}

	return packages, rows.Err()
}

func (r *PostgresPackageRepository) DeletePackage(ctx context.Context, id string) error {
	// Files go with the package via ON DELETE CASCADE.
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM post_packages
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
