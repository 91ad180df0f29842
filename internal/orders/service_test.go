package orders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/distributech/distributech-backend/internal/items"
	"github.com/distributech/distributech-backend/internal/notify"
	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/db/models"
	"github.com/distributech/distributech-backend/pkg/enums"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
	"github.com/distributech/distributech-backend/pkg/logger"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE roles (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);`,
		`CREATE TABLE departments (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);`,
		`CREATE TABLE users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role_id TEXT NOT NULL,
  department_id TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  measurement_unit TEXT,
  price TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE order_statuses (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  current_location TEXT,
  location_timestamp DATETIME NOT NULL,
  remarks TEXT,
  expected_delivery_date DATETIME,
  updated_by_id TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_at_order_time TEXT NOT NULL
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

type fakeNotifier struct {
	mu       sync.Mutex
	enqueued []notify.Notification
	sent     []notify.Notification
	syncOK   bool
}

func (f *fakeNotifier) Enqueue(ctx context.Context, n notify.Notification) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, n)
	return true
}

func (f *fakeNotifier) SendSync(ctx context.Context, n notify.Notification) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return f.syncOK
}

type ordersFixture struct {
	db       *gorm.DB
	svc      Service
	notifier *fakeNotifier
	manager  models.User
	outsider models.User
	deptID   uuid.UUID
	wrap     models.Item
	cutter   models.Item
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()
	db := setupOrdersTestDB(t)

	role := models.Role{ID: uuid.New(), Name: enums.RoleDepartmentManager}
	require.NoError(t, db.Create(&role).Error)

	logistics := models.Department{ID: uuid.New(), Name: "Logistics"}
	finance := models.Department{ID: uuid.New(), Name: "Finance"}
	require.NoError(t, db.Create(&logistics).Error)
	require.NoError(t, db.Create(&finance).Error)

	manager := models.User{
		ID:           uuid.New(),
		Username:     "logistics.lead",
		Email:        "lead@distributech.io",
		PasswordHash: "x",
		RoleID:       role.ID,
		DepartmentID: logistics.ID,
		IsActive:     true,
	}
	outsider := models.User{
		ID:           uuid.New(),
		Username:     "finance.lead",
		Email:        "finance@distributech.io",
		PasswordHash: "x",
		RoleID:       role.ID,
		DepartmentID: finance.ID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&manager).Error)
	require.NoError(t, db.Create(&outsider).Error)

	wrap := models.Item{ID: uuid.New(), Name: "Pallet Wrap", Price: decimal.RequireFromString("10.00")}
	cutter := models.Item{ID: uuid.New(), Name: "Box Cutter", Price: decimal.RequireFromString("5.00")}
	require.NoError(t, db.Create(&wrap).Error)
	require.NoError(t, db.Create(&cutter).Error)

	notifier := &fakeNotifier{syncOK: true}
	svc, err := NewService(
		NewRepository(db),
		items.NewRepository(db),
		gormTxRunner{db: db},
		notifier,
		logger.New(logger.Options{ServiceName: "test"}),
		config.MailConfig{OpsMailbox: "inventory@distributech.io"},
	)
	require.NoError(t, err)

	return &ordersFixture{
		db:       db,
		svc:      svc,
		notifier: notifier,
		manager:  manager,
		outsider: outsider,
		deptID:   logistics.ID,
		wrap:     wrap,
		cutter:   cutter,
	}
}

func (f *ordersFixture) actor(user models.User) Actor {
	dept := user.DepartmentID
	return Actor{UserID: user.ID, Role: enums.RoleDepartmentManager, DepartmentID: &dept}
}

func TestCreateSnapshotsPricesAndComputesTotals(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, f.actor(f.manager), CreateRequest{
		Items: []LineRequest{
			{ItemID: f.wrap.ID.String(), Quantity: 3},
			{ItemID: f.cutter.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, detail.Order.Status)
	assert.Equal(t, "35.00", detail.Total.StringFixed(2))
	require.Len(t, detail.Lines, 2)
	totals := map[string]string{}
	for _, line := range detail.Lines {
		totals[line.ItemName] = line.LineTotal.StringFixed(2)
	}
	assert.Equal(t, "30.00", totals["Pallet Wrap"])
	assert.Equal(t, "5.00", totals["Box Cutter"])

	// catalog price change must not move the snapshot
	require.NoError(t, f.db.Model(&models.Item{}).Where("id = ?", f.wrap.ID).Update("price", "99.99").Error)
	reloaded, err := f.svc.Get(ctx, detail.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "35.00", reloaded.Total.StringFixed(2))

	// initial history row exists
	statuses, err := f.svc.ListStatuses(ctx, detail.Order.ID)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, enums.OrderStatusPending, statuses[0].Status)

	// owner got a fire-and-forget notification
	require.Len(t, f.notifier.enqueued, 1)
	assert.Equal(t, notify.KindOrderCreated, f.notifier.enqueued[0].Kind)
	assert.Equal(t, []string{"lead@distributech.io"}, f.notifier.enqueued[0].Message.To)
}

func TestCreateRejectsEmptyAndUnknownItems(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.actor(f.manager), CreateRequest{})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = f.svc.Create(ctx, f.actor(f.manager), CreateRequest{
		Items: []LineRequest{{ItemID: uuid.NewString(), Quantity: 1}},
	})
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "no order row may exist after rejected creates")
}

func TestRecordStatusValidatesBeforeWriting(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, f.actor(f.manager), CreateRequest{
		Items: []LineRequest{{ItemID: f.wrap.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	actor := f.actor(f.manager)
	_, err = f.svc.RecordStatus(ctx, &actor, detail.Order.ID, RecordStatusRequest{Status: "Teleported"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	statuses, err := f.svc.ListStatuses(ctx, detail.Order.ID)
	require.NoError(t, err)
	assert.Len(t, statuses, 1, "rejected status must not be written")

	reloaded, err := f.svc.Get(ctx, detail.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, reloaded.Order.Status)
}

func TestRecordStatusAppendsHistoryAndMirrorsOrder(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, f.actor(f.manager), CreateRequest{
		Items: []LineRequest{{ItemID: f.wrap.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	location := "Hub West"
	actor := f.actor(f.manager)
	row, err := f.svc.RecordStatus(ctx, &actor, detail.Order.ID, RecordStatusRequest{
		Status:          "Shipped",
		CurrentLocation: &location,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, row.Status)
	require.NotNil(t, row.UpdatedByID)
	assert.Equal(t, f.manager.ID, *row.UpdatedByID)

	reloaded, err := f.svc.Get(ctx, detail.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, reloaded.Order.Status)

	statuses, err := f.svc.ListStatuses(ctx, detail.Order.ID)
	require.NoError(t, err)
	assert.Len(t, statuses, 2)
}

func TestListScopesDepartmentManagers(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.actor(f.manager), CreateRequest{
		Items: []LineRequest{{ItemID: f.wrap.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.actor(f.outsider), CreateRequest{
		Items: []LineRequest{{ItemID: f.cutter.ID.String(), Quantity: 2}},
	})
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, f.actor(f.manager), ListFilters{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.manager.ID, mine[0].Order.UserID)

	all, err := f.svc.List(ctx, Actor{UserID: uuid.New(), Role: enums.RoleSuperAdmin}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := f.svc.List(ctx, Actor{UserID: uuid.New(), Role: enums.RoleStaff}, ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNotifyUsesOverrideOrOwnerEmail(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, f.actor(f.manager), CreateRequest{
		Items: []LineRequest{{ItemID: f.wrap.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	sent, err := f.svc.Notify(ctx, detail.Order.ID, "")
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, []string{"lead@distributech.io"}, f.notifier.sent[0].Message.To)

	sent, err = f.svc.Notify(ctx, detail.Order.ID, "audit@distributech.io")
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, []string{"audit@distributech.io"}, f.notifier.sent[1].Message.To)

	f.notifier.syncOK = false
	sent, err = f.svc.Notify(ctx, detail.Order.ID, "")
	require.NoError(t, err, "transport failure is not an error")
	assert.False(t, sent)
}

func TestRecordPublicStatusSendsToOpsMailboxByDefault(t *testing.T) {
	f := newOrdersFixture(t)
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, f.actor(f.manager), CreateRequest{
		Items: []LineRequest{{ItemID: f.wrap.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	row, sent, err := f.svc.RecordPublicStatus(ctx, detail.Order.ID, RecordStatusRequest{Status: "In Transit"}, "")
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Nil(t, row.UpdatedByID, "public updates carry no actor")

	require.NotEmpty(t, f.notifier.sent)
	last := f.notifier.sent[len(f.notifier.sent)-1]
	assert.Equal(t, notify.KindStatusChange, last.Kind)
	assert.Equal(t, []string{"inventory@distributech.io"}, last.Message.To)

	reloaded, err := f.svc.Get(ctx, detail.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusInTransit, reloaded.Order.Status)
}
