package services_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"printshop_backend/internal/models"
	"printshop_backend/internal/repositories"
	"printshop_backend/internal/services"
	"printshop_backend/internal/services/dto"
	"printshop_backend/internal/storage"
	"printshop_backend/internal/testutil"
	"printshop_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var stlPayload = []byte("solid bracket\nfacet normal 0 0 1\nendfacet\nendsolid bracket\n")

// Minimal valid PNG header plus IEND, enough for content sniffing.
var pngPayload = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
	0x89, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E,
	0x44, 0xAE, 0x42, 0x60, 0x82,
}

func newFileService(t *testing.T, maxSize int64) (services.FileService, storage.Storage) {
	t.Helper()
	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost/files",
	})
	require.NoError(t, err)
	svc := services.NewFileService(
		repositories.NewUploadedFileRepository(),
		store,
		services.FileServiceConfig{MaxSize: maxSize},
	)
	return svc, store
}

func uploadRequest(name string, payload []byte) *dto.UploadFileRequest {
	return &dto.UploadFileRequest{
		OriginalName: name,
		Size:         int64(len(payload)),
		ContentType:  "application/octet-stream",
		Reader:       bytes.NewReader(payload),
	}
}

func TestUpload_ModelFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, store := newFileService(t, 0)

	file, err := svc.Upload(context.Background(), tx, uploadRequest("bracket.stl", stlPayload))
	require.NoError(t, err)

	assert.Equal(t, models.FileTypeModel, file.FileType)
	assert.True(t, file.Temporary, "uploads start temporary")
	assert.Nil(t, file.OrderID)
	assert.Equal(t, models.FileStatusPending, file.Status)
	assert.Equal(t, "bracket.stl", file.OriginalName)
	assert.NotEmpty(t, file.URL)

	reader, err := store.Get(context.Background(), file.Path)
	require.NoError(t, err)
	stored, err := io.ReadAll(reader)
	require.NoError(t, reader.Close())
	require.NoError(t, err)
	assert.Equal(t, stlPayload, stored, "sniffed head bytes are written along with the rest")
}

func TestUpload_ImageFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, _ := newFileService(t, 0)

	file, err := svc.Upload(context.Background(), tx, uploadRequest("preview.png", pngPayload))
	require.NoError(t, err)
	assert.Equal(t, models.FileTypeImage, file.FileType)
	assert.Equal(t, "image/png", file.MimeType)
}

func TestUpload_RejectsUnsupportedType(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, _ := newFileService(t, 0)

	_, err := svc.Upload(context.Background(), tx, uploadRequest("malware.exe", []byte("MZ\x90\x00\x03")))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestUpload_RejectsOversizedFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, _ := newFileService(t, 16)

	_, err := svc.Upload(context.Background(), tx, uploadRequest("big.stl", stlPayload))
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

func TestDeleteFile_RemovesUnattachedFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, store := newFileService(t, 0)

	file, err := svc.Upload(context.Background(), tx, uploadRequest("scrap.stl", stlPayload))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFile(context.Background(), tx, file.ID))

	_, err = svc.GetFile(tx, file.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeFileNotFound, appErr.Code)

	exists, err := store.Exists(context.Background(), file.Path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteFile_RefusesAttachedFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, _ := newFileService(t, 0)

	order := seedOrder(t, tx)
	file, err := svc.Upload(context.Background(), tx, uploadRequest("keep.stl", stlPayload))
	require.NoError(t, err)
	claimFile(t, tx, file.ID, order.ID)

	err = svc.DeleteFile(context.Background(), tx, file.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeFileAttached, appErr.Code)

	_, err = svc.GetFile(tx, file.ID)
	assert.NoError(t, err, "an attached file must never be deleted")
}

func TestAttachModelData(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, _ := newFileService(t, 0)

	file, err := svc.Upload(context.Background(), tx, uploadRequest("bracket.stl", stlPayload))
	require.NoError(t, err)

	err = svc.AttachModelData(tx, file.ID, &models.ModelData{
		VolumeCm3:        12.5,
		WeightGrams:      15.6,
		PrintTimeMinutes: 90,
	})
	require.NoError(t, err)

	got, err := svc.GetFile(tx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FileStatusProcessed, got.Status, "analysis promotes pending to processed")
	require.NotNil(t, got.ModelData)
	assert.Equal(t, 12.5, got.ModelData.VolumeCm3)
}

func TestAttachModelData_RejectsImageFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc, _ := newFileService(t, 0)

	file, err := svc.Upload(context.Background(), tx, uploadRequest("preview.png", pngPayload))
	require.NoError(t, err)

	err = svc.AttachModelData(tx, file.ID, &models.ModelData{VolumeCm3: 1})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}
