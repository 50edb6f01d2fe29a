package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronc-hrs/veripost/app/database"
)

type fakePackageRepo struct {
	pkg *database.Package

	statusUpdates []string
	readyFiles    int
	readySections int
	errMessage    string
	errDetail     string

	getErr    error
	failAt    string
	markReady bool
	markError bool
}

func (f *fakePackageRepo) CreatePackage(ctx context.Context, pkg *database.Package) error {
	return nil
}

func (f *fakePackageRepo) GetPackage(ctx context.Context, id string) (*database.Package, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.pkg, nil
}

func (f *fakePackageRepo) ListPackages(ctx context.Context) ([]database.Package, error) {
	return nil, nil
}

func (f *fakePackageRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	if f.failAt == status {
		return errors.New("status write failed")
	}
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakePackageRepo) MarkReady(ctx context.Context, id string, fileCount, sectionCount int) error {
	f.markReady = true
	f.readyFiles = fileCount
	f.readySections = sectionCount
	return nil
}

func (f *fakePackageRepo) MarkError(ctx context.Context, id string, message, detail string) error {
	f.markError = true
	f.errMessage = message
	f.errDetail = detail
	return nil
}

func (f *fakePackageRepo) ListStalled(ctx context.Context, updatedBefore time.Time) ([]database.Package, error) {
	return nil, nil
}

func (f *fakePackageRepo) DeletePackage(ctx context.Context, id string) error {
	return nil
}

type fakeStore struct {
	keys    []string
	listErr error
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte) error { return nil }

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, nil }

func (f *fakeStore) List(ctx context.Context, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.keys, nil
}

func (f *fakeStore) DeletePrefix(ctx context.Context, prefix string) error { return nil }

func pendingPackage() *database.Package {
	return &database.Package{
		ID:            "pkg-1",
		Name:          "Fanuc",
		Platform:      "camworks",
		Status:        database.StatusPending,
		StoragePrefix: "packages/pkg-1/",
	}
}

func TestMachineRunHappyPath(t *testing.T) {
	repo := &fakePackageRepo{pkg: pendingPackage()}
	store := &fakeStore{keys: []string{"packages/pkg-1/Fanuc.SRC", "packages/pkg-1/Fanuc.LIB"}}
	machine := NewMachine(repo, store)

	err := machine.Run(context.Background(), "pkg-1")

	require.NoError(t, err)
	assert.Equal(t, []string{
		database.StatusValidating,
		database.StatusStoring,
		database.StatusParsing,
	}, repo.statusUpdates)
	assert.True(t, repo.markReady)
	assert.Equal(t, 2, repo.readyFiles)
	assert.Equal(t, 0, repo.readySections)
	assert.False(t, repo.markError)
}

func TestMachineRunTerminalNoOp(t *testing.T) {
	for _, status := range []string{database.StatusReady, database.StatusError} {
		pkg := pendingPackage()
		pkg.Status = status
		repo := &fakePackageRepo{pkg: pkg}
		machine := NewMachine(repo, &fakeStore{})

		err := machine.Run(context.Background(), "pkg-1")

		require.NoError(t, err)
		assert.Empty(t, repo.statusUpdates, "status %s", status)
		assert.False(t, repo.markReady, "status %s", status)
		assert.False(t, repo.markError, "status %s", status)
	}
}

func TestMachineRunPackageNotFound(t *testing.T) {
	repo := &fakePackageRepo{getErr: database.ErrNotFound}
	machine := NewMachine(repo, &fakeStore{})

	err := machine.Run(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.False(t, repo.markError)
}

func TestMachineRunStorageListFailure(t *testing.T) {
	repo := &fakePackageRepo{pkg: pendingPackage()}
	store := &fakeStore{listErr: errors.New("connection refused")}
	machine := NewMachine(repo, store)

	err := machine.Run(context.Background(), "pkg-1")

	require.Error(t, err)
	assert.True(t, repo.markError)
	assert.Equal(t, UserErrorMessage, repo.errMessage)
	assert.Contains(t, repo.errDetail, "connection refused")
	assert.False(t, repo.markReady)
}

func TestMachineRunNoStoredFiles(t *testing.T) {
	repo := &fakePackageRepo{pkg: pendingPackage()}
	machine := NewMachine(repo, &fakeStore{keys: nil})

	err := machine.Run(context.Background(), "pkg-1")

	require.Error(t, err)
	assert.True(t, repo.markError)
	assert.Equal(t, UserErrorMessage, repo.errMessage)
	assert.Contains(t, repo.errDetail, "no stored files")
}

func TestMachineRunStatusWriteFailure(t *testing.T) {
	repo := &fakePackageRepo{pkg: pendingPackage(), failAt: database.StatusParsing}
	store := &fakeStore{keys: []string{"packages/pkg-1/Fanuc.SRC"}}
	machine := NewMachine(repo, store)

	err := machine.Run(context.Background(), "pkg-1")

	require.Error(t, err)
	assert.Equal(t, []string{database.StatusValidating, database.StatusStoring}, repo.statusUpdates)
	assert.True(t, repo.markError)
	assert.Equal(t, UserErrorMessage, repo.errMessage)
}
