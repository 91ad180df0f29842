package attachments

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
)

func setupAttachmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE attachments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  uploaded_by_id TEXT NOT NULL,
  file_url TEXT NOT NULL,
  uploaded_at DATETIME
);`).Error)
	return db
}

func newAttachmentsService(t *testing.T, orderExists bool) Service {
	t.Helper()
	db := setupAttachmentsTestDB(t)
	svc, err := NewService(NewRepository(db), OrderCheckerFunc(func(ctx context.Context, id uuid.UUID) (bool, error) {
		return orderExists, nil
	}))
	require.NoError(t, err)
	return svc
}

func TestCreateStoresUploaderAndURL(t *testing.T) {
	svc := newAttachmentsService(t, true)
	ctx := context.Background()

	uploader := uuid.New()
	orderID := uuid.New()
	created, err := svc.Create(ctx, uploader, CreateRequest{
		OrderID: orderID.String(),
		FileURL: " https://files.distributech.io/orders/manifest.pdf ",
	})
	require.NoError(t, err)
	assert.Equal(t, uploader, created.UploadedByID)
	assert.Equal(t, orderID, created.OrderID)
	assert.Equal(t, "https://files.distributech.io/orders/manifest.pdf", created.FileURL)

	rows, err := svc.ListByOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCreateRejectsRelativeURLAndMissingOrder(t *testing.T) {
	svc := newAttachmentsService(t, true)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), CreateRequest{
		OrderID: uuid.NewString(),
		FileURL: "orders/manifest.pdf",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	missing := newAttachmentsService(t, false)
	_, err = missing.Create(ctx, uuid.New(), CreateRequest{
		OrderID: uuid.NewString(),
		FileURL: "https://files.distributech.io/a.pdf",
	})
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateReplacesURL(t *testing.T) {
	svc := newAttachmentsService(t, true)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), CreateRequest{
		OrderID: uuid.NewString(),
		FileURL: "https://files.distributech.io/v1.pdf",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateRequest{FileURL: "https://files.distributech.io/v2.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "https://files.distributech.io/v2.pdf", updated.FileURL)

	_, err = svc.Update(ctx, uuid.New(), UpdateRequest{FileURL: "https://files.distributech.io/v3.pdf"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestDeleteRemovesAttachment(t *testing.T) {
	svc := newAttachmentsService(t, true)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), CreateRequest{
		OrderID: uuid.NewString(),
		FileURL: "https://files.distributech.io/old.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
