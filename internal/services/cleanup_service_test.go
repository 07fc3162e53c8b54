package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"printshop_backend/internal/models"
	"printshop_backend/internal/repositories"
	"printshop_backend/internal/services"
	"printshop_backend/internal/storage"
	"printshop_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// failingStorage refuses to delete one path and accepts everything else.
type failingStorage struct {
	failPath string
}

func (s failingStorage) Save(ctx context.Context, path string, reader io.Reader, contentType string) error {
	return nil
}

func (s failingStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, storage.ErrNotFound
}

func (s failingStorage) Delete(ctx context.Context, path string) error {
	if path == s.failPath {
		return errors.New("backend unavailable")
	}
	return nil
}

func (s failingStorage) Exists(ctx context.Context, path string) (bool, error) { return false, nil }

func (s failingStorage) GetURL(ctx context.Context, path string) (string, error) { return "", nil }

func (s failingStorage) GetSize(ctx context.Context, path string) (int64, error) { return 0, nil }

func newCleanupService(t *testing.T) (services.CleanupService, storage.Storage) {
	t.Helper()
	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost/files",
	})
	require.NoError(t, err)
	return services.NewCleanupService(repositories.NewUploadedFileRepository(), store), store
}

func seedBlob(t *testing.T, store storage.Storage, path string) {
	t.Helper()
	err := store.Save(context.Background(), path, bytes.NewReader([]byte("solid x\nendsolid x\n")), "model/stl")
	require.NoError(t, err)
}

func fileExists(t *testing.T, tx *gorm.DB, fileID string) bool {
	t.Helper()
	var n int64
	err := tx.Model(&models.UploadedFile{}).Where("id = ?", fileID).Count(&n).Error
	require.NoError(t, err)
	return n > 0
}

func TestGarbageCollection_DeletesStaleTemporaryUploads(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, store := newCleanupService(t)

	stale := seedFile(t, tx)
	backdateFile(t, tx, stale.ID, 2*time.Hour)
	seedBlob(t, store, stale.Path)

	report, err := svc.RunGarbageCollection(context.Background(), tx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Deleted)
	assert.Empty(t, report.Errors)

	assert.False(t, fileExists(t, tx, stale.ID))

	exists, err := store.Exists(context.Background(), stale.Path)
	require.NoError(t, err)
	assert.False(t, exists, "the blob goes with the row")
}

func TestGarbageCollection_DeletesModelDataWithTheFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, store := newCleanupService(t)

	stale := seedFile(t, tx)
	backdateFile(t, tx, stale.ID, 2*time.Hour)
	seedBlob(t, store, stale.Path)
	require.NoError(t, tx.Create(&models.ModelData{
		UploadedFileID: stale.ID,
		VolumeCm3:      12.5,
		WeightGrams:    15.6,
	}).Error)

	report, err := svc.RunGarbageCollection(context.Background(), tx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)

	var n int64
	require.NoError(t, tx.Model(&models.ModelData{}).Where("uploaded_file_id = ?", stale.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGarbageCollection_SparesFreshAndAttachedFiles(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, _ := newCleanupService(t)

	fresh := seedFile(t, tx)

	order := seedOrder(t, tx)
	attached := seedFile(t, tx)
	claimFile(t, tx, attached.ID, order.ID)
	backdateFile(t, tx, attached.ID, 3*time.Hour)

	report, err := svc.RunGarbageCollection(context.Background(), tx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, report.Scanned, "neither file is a candidate")
	assert.Zero(t, report.Deleted)

	assert.True(t, fileExists(t, tx, fresh.ID))
	assert.True(t, fileExists(t, tx, attached.ID))
}

func TestGarbageCollection_ContinuesAfterPerFileError(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)

	store := failingStorage{failPath: "uploads/poison.stl"}
	svc := services.NewCleanupService(repositories.NewUploadedFileRepository(), store)

	poison := seedFile(t, tx, func(f *models.UploadedFile) { f.Path = "uploads/poison.stl" })
	backdateFile(t, tx, poison.ID, 2*time.Hour)

	healthy := seedFile(t, tx)
	backdateFile(t, tx, healthy.ID, 2*time.Hour)

	report, err := svc.RunGarbageCollection(context.Background(), tx, time.Hour)
	require.NoError(t, err, "one failed file never aborts the sweep")
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Deleted, "only the fully removed file counts")
	assert.Len(t, report.Errors, 1)

	assert.False(t, fileExists(t, tx, healthy.ID))
}

// linkDuringSweepRepo reproduces the race where a file is claimed by an order
// after selection but before deletion: selection returns the candidate, then
// the file is linked before the sweep gets to it.
type linkDuringSweepRepo struct {
	repositories.UploadedFileRepository
	orderID string
}

func (r linkDuringSweepRepo) FindStaleTemporary(db *gorm.DB, cutoff time.Time) ([]models.UploadedFile, error) {
	files, err := r.UploadedFileRepository.FindStaleTemporary(db, cutoff)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := r.UploadedFileRepository.ClaimForOrder(db, f.ID, r.orderID); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func TestGarbageCollection_SparesFileLinkedMidSweep(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)

	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost/files",
	})
	require.NoError(t, err)

	order := seedOrder(t, tx)
	file := seedFile(t, tx)
	backdateFile(t, tx, file.ID, 2*time.Hour)
	seedBlob(t, store, file.Path)

	repo := linkDuringSweepRepo{
		UploadedFileRepository: repositories.NewUploadedFileRepository(),
		orderID:                order.ID,
	}
	svc := services.NewCleanupService(repo, store)

	report, err := svc.RunGarbageCollection(context.Background(), tx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Zero(t, report.Deleted, "a file linked mid-sweep is not reported as deleted")
	assert.Empty(t, report.Errors)

	got := reloadFile(t, tx, file.ID)
	require.NotNil(t, got.OrderID)
	assert.Equal(t, order.ID, *got.OrderID, "the row survives the sweep")

	exists, err := store.Exists(context.Background(), file.Path)
	require.NoError(t, err)
	assert.True(t, exists, "an ordered file keeps its binary")
}
