// Package ingest drives uploaded packages through the ordered processing
// states: pending -> validating -> storing -> parsing -> ready, with error
// reachable from any non-terminal state.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cameronc-hrs/veripost/app/database"
	"github.com/cameronc-hrs/veripost/app/storage"
)

// UserErrorMessage is the fixed user-facing summary persisted on any
// ingestion failure. The underlying failure text goes to error_detail.
const UserErrorMessage = "Something went wrong while processing your package."

// Machine executes the ingestion steps for one package at a time. Every
// status write is a single, immediately committed update, so pollers
// observe a monotonically advancing status.
type Machine struct {
	packages database.PackageRepository
	store    storage.ObjectStore
}

func NewMachine(packages database.PackageRepository, store storage.ObjectStore) *Machine {
	return &Machine{packages: packages, store: store}
}

// Run processes a package from its current state to a terminal one. Safe
// under at-least-once redelivery: packages already in a terminal state are
// a logged no-op. Failures are persisted as an error status and returned
// so the task queue's retry accounting observes them.
func (m *Machine) Run(ctx context.Context, packageID string) error {
	pkg, err := m.packages.GetPackage(ctx, packageID)
	if err != nil {
		return fmt.Errorf("failed to load package %s: %w", packageID, err)
	}

	if database.IsTerminalStatus(pkg.Status) {
		slog.Info("Package already in terminal state, skipping", "package", packageID, "status", pkg.Status)
		return nil
	}

	fileCount, err := m.process(ctx, pkg)
	if err != nil {
		if markErr := m.packages.MarkError(ctx, packageID, UserErrorMessage, err.Error()); markErr != nil {
			slog.Error("Failed to persist error status", "package", packageID, "error", markErr)
		}
		return fmt.Errorf("ingestion failed for package %s: %w", packageID, err)
	}

	slog.Info("Package ready", "package", packageID, "files", fileCount)
	return nil
}

func (m *Machine) process(ctx context.Context, pkg *database.Package) (int, error) {
	// validating: re-enumerate the stored files under the package prefix,
	// guarding against an inconsistent upload.
	if err := m.packages.UpdateStatus(ctx, pkg.ID, database.StatusValidating); err != nil {
		return 0, err
	}
	keys, err := m.store.List(ctx, pkg.StoragePrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate stored files: %w", err)
	}
	if len(keys) == 0 {
		return 0, fmt.Errorf("no stored files found under prefix %q", pkg.StoragePrefix)
	}
	slog.Info("Package validating", "package", pkg.ID, "files", len(keys))

	// storing: file presence is confirmed; integrity reconciliation
	// against recorded content hashes could slot in here.
	if err := m.packages.UpdateStatus(ctx, pkg.ID, database.StatusStoring); err != nil {
		return 0, err
	}
	slog.Info("Package storing", "package", pkg.ID)

	// parsing: structural section counting is a stub, real UPG parsing
	// happens on demand via the analyze endpoint.
	if err := m.packages.UpdateStatus(ctx, pkg.ID, database.StatusParsing); err != nil {
		return 0, err
	}
	sectionCount := 0
	slog.Info("Package parsing", "package", pkg.ID)

	if err := m.packages.MarkReady(ctx, pkg.ID, len(keys), sectionCount); err != nil {
		return 0, err
	}

	return len(keys), nil
}
