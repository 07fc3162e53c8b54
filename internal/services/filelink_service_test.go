package services_test

import (
	"context"
	"testing"

	"printshop_backend/internal/models"
	"printshop_backend/internal/repositories"
	"printshop_backend/internal/services"
	"printshop_backend/internal/testutil"
	"printshop_backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLinkService() services.FileLinkService {
	return services.NewFileLinkService(
		repositories.NewUploadedFileRepository(),
		repositories.NewOrderRepository(),
	)
}

func TestLinkFile_ClaimsUnattachedFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc := newLinkService()

	order := seedOrder(t, tx)
	file := seedFile(t, tx)

	res, err := svc.LinkFile(context.Background(), tx, file.ID, order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, services.LinkOutcomeLinked, res.Outcome)
	assert.True(t, res.Verified)

	got := reloadFile(t, tx, file.ID)
	require.NotNil(t, got.OrderID)
	assert.Equal(t, order.ID, *got.OrderID)
	assert.False(t, got.Temporary)
	assert.True(t, got.ProcessingComplete)
	assert.Equal(t, models.FileStatusOrdered, got.Status)
}

func TestLinkFile_SecondCallIsIdempotent(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc := newLinkService()

	order := seedOrder(t, tx)
	item := seedItem(t, tx, order.ID, nil)
	file := seedFile(t, tx)

	first, err := svc.LinkFile(context.Background(), tx, file.ID, order.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, services.LinkOutcomeLinked, first.Outcome)

	second, err := svc.LinkFile(context.Background(), tx, file.ID, order.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, services.LinkOutcomeAlreadyLinked, second.Outcome)
	assert.True(t, second.Verified)

	got := reloadFile(t, tx, file.ID)
	require.NotNil(t, got.OrderID)
	assert.Equal(t, order.ID, *got.OrderID)
}

func TestLinkFile_FirstWriterWins(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc := newLinkService()

	first := seedOrder(t, tx)
	second := seedOrder(t, tx)
	file := seedFile(t, tx)

	res, err := svc.LinkFile(context.Background(), tx, file.ID, first.ID, "")
	require.NoError(t, err)
	require.Equal(t, services.LinkOutcomeLinked, res.Outcome)

	res, err = svc.LinkFile(context.Background(), tx, file.ID, second.ID, "")
	require.NoError(t, err)
	assert.Equal(t, services.LinkOutcomeConflict, res.Outcome)

	got := reloadFile(t, tx, file.ID)
	require.NotNil(t, got.OrderID)
	assert.Equal(t, first.ID, *got.OrderID, "the losing writer must not overwrite the link")
}

func TestLinkFile_MissingFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc := newLinkService()

	order := seedOrder(t, tx)

	res, err := svc.LinkFile(context.Background(), tx, uuid.NewString(), order.ID, "")
	require.NoError(t, err, "a missing file is an outcome, not an error")
	assert.Equal(t, services.LinkOutcomeNotFound, res.Outcome)
}

func TestLinkFile_WritesOptionsBackReference(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc := newLinkService()

	order := seedOrder(t, tx)
	item := seedItem(t, tx, order.ID, nil)
	file := seedFile(t, tx)

	res, err := svc.LinkFile(context.Background(), tx, file.ID, order.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, file.URL, res.FileURL)

	opts, err := repositories.NewOrderRepository().FindCustomOptionsByItem(tx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, opts, "linking creates the options row when absent")
	require.NotNil(t, opts.UploadedFileID)
	assert.Equal(t, file.ID, *opts.UploadedFileID)
	assert.Equal(t, file.URL, opts.FileURL, "stored URL comes from the file row")
}

func TestReassignFile_OverwritesExistingLink(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc := newLinkService()

	from := seedOrder(t, tx)
	to := seedOrder(t, tx)
	file := seedFile(t, tx)
	claimFile(t, tx, file.ID, from.ID)

	require.NoError(t, svc.ReassignFile(context.Background(), tx, file.ID, to.ID))

	got := reloadFile(t, tx, file.ID)
	require.NotNil(t, got.OrderID)
	assert.Equal(t, to.ID, *got.OrderID)
	assert.False(t, got.Temporary)
}

func TestReassignFile_UnknownOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc := newLinkService()

	file := seedFile(t, tx)

	err := svc.ReassignFile(context.Background(), tx, file.ID, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestReassignFile_UnknownFile(t *testing.T) {
	db := testutil.OpenTestDB(t)
	tx := testutil.BeginTx(t, db)
	svc := newLinkService()

	order := seedOrder(t, tx)

	err := svc.ReassignFile(context.Background(), tx, uuid.NewString(), order.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeFileNotFound, appErr.Code)
}
