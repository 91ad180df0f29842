package comments

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

	"github.com/distributech/distributech-backend/pkg/db/models"
	"github.com/distributech/distributech-backend/pkg/enums"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
)

func setupCommentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE comments (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  comment_text TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func alwaysExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

func TestCreateChecksOrderExists(t *testing.T) {
	db := setupCommentsTestDB(t)
	svc, err := NewService(NewRepository(db), OrderCheckerFunc(func(ctx context.Context, id uuid.UUID) (bool, error) {
		return false, nil
	}))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), Actor{UserID: uuid.New(), Role: enums.RoleStaff}, CreateRequest{
		OrderID:     uuid.NewString(),
		CommentText: "where is this order",
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestCreateAndListByOrder(t *testing.T) {
	db := setupCommentsTestDB(t)
	svc, err := NewService(NewRepository(db), OrderCheckerFunc(alwaysExists))
	require.NoError(t, err)
	ctx := context.Background()

	orderID := uuid.New()
	author := Actor{UserID: uuid.New(), Role: enums.RoleStaff}

	created, err := svc.Create(ctx, author, CreateRequest{
		OrderID:     orderID.String(),
		CommentText: "  delivery gate code is 4412  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "delivery gate code is 4412", created.CommentText)
	assert.Equal(t, author.UserID, created.UserID)

	_, err = svc.Create(ctx, author, CreateRequest{
		OrderID:     uuid.NewString(),
		CommentText: "unrelated",
	})
	require.NoError(t, err)

	rows, err := svc.ListByOrder(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, created.ID, rows[0].ID)
}

func TestUpdateEnforcesOwnerOrSuperAdmin(t *testing.T) {
	db := setupCommentsTestDB(t)
	svc, err := NewService(NewRepository(db), OrderCheckerFunc(alwaysExists))
	require.NoError(t, err)
	ctx := context.Background()

	author := Actor{UserID: uuid.New(), Role: enums.RoleStaff}
	created, err := svc.Create(ctx, author, CreateRequest{
		OrderID:     uuid.NewString(),
		CommentText: "original",
	})
	require.NoError(t, err)

	stranger := Actor{UserID: uuid.New(), Role: enums.RoleWarehouseManager}
	_, err = svc.Update(ctx, stranger, created.ID, UpdateRequest{CommentText: "hijacked"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeForbidden, appErr.Code())

	updated, err := svc.Update(ctx, author, created.ID, UpdateRequest{CommentText: "edited by author"})
	require.NoError(t, err)
	assert.Equal(t, "edited by author", updated.CommentText)

	admin := Actor{UserID: uuid.New(), Role: enums.RoleSuperAdmin}
	updated, err = svc.Update(ctx, admin, created.ID, UpdateRequest{CommentText: "edited by admin"})
	require.NoError(t, err)
	assert.Equal(t, "edited by admin", updated.CommentText)
}

func TestDeleteRemovesComment(t *testing.T) {
	db := setupCommentsTestDB(t)
	svc, err := NewService(NewRepository(db), OrderCheckerFunc(alwaysExists))
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Create(ctx, Actor{UserID: uuid.New(), Role: enums.RoleStaff}, CreateRequest{
		OrderID:     uuid.NewString(),
		CommentText: "to be removed",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}
