package database

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups for packages or files that do not
// exist, including file lookups scoped to the wrong package.
var ErrNotFound = errors.New("not found")

type PackageRepository interface {
	CreatePackage(ctx context.Context, pkg *Package) error
	GetPackage(ctx context.Context, id string) (*Package, error)
	ListPackages(ctx context.Context) ([]Package, error)

	UpdateStatus(ctx context.Context, id string, status string) error
	MarkReady(ctx context.Context, id string, fileCount, sectionCount int) error
	MarkError(ctx context.Context, id string, message, detail string) error

	// ListStalled returns non-terminal packages not updated since the
	// cutoff, candidates for ingestion redelivery.
	ListStalled(ctx context.Context, updatedBefore time.Time) ([]Package, error)

	DeletePackage(ctx context.Context, id string) error
}

type FileRepository interface {
	CreateFile(ctx context.Context, file *File) error

	// GetFile looks a file up by id within a package; a file id that
	// belongs to another package is ErrNotFound, never a leak.
	GetFile(ctx context.Context, packageID, fileID string) (*File, error)

	ListFiles(ctx context.Context, packageID string) ([]File, error)
}
