package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	attachsvc "github.com/distributech/distributech-backend/internal/attachments"
	authsvc "github.com/distributech/distributech-backend/internal/auth"
	commentsvc "github.com/distributech/distributech-backend/internal/comments"
	itemsvc "github.com/distributech/distributech-backend/internal/items"
	"github.com/distributech/distributech-backend/internal/notify"
	ordersvc "github.com/distributech/distributech-backend/internal/orders"
	stocksvc "github.com/distributech/distributech-backend/internal/stock"
	usersvc "github.com/distributech/distributech-backend/internal/users"
	pkgauth "github.com/distributech/distributech-backend/pkg/auth"
	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/db/models"
	"github.com/distributech/distributech-backend/pkg/enums"
	"github.com/distributech/distributech-backend/pkg/logger"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, clientIP string, req authsvc.LoginRequest) (*authsvc.TokenPair, *models.User, error) {
	return &authsvc.TokenPair{}, &models.User{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.TokenPair, error) {
	return &authsvc.TokenPair{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessToken string) error {
	return nil
}

type stubRolesService struct{}

func (stubRolesService) Create(ctx context.Context, name string) (*models.Role, error) {
	return &models.Role{ID: uuid.New(), Name: enums.Role(name)}, nil
}

func (stubRolesService) List(ctx context.Context) ([]models.Role, error) {
	return []models.Role{}, nil
}

func (stubRolesService) Get(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	return &models.Role{ID: id}, nil
}

func (stubRolesService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubDepartmentsService struct{}

func (stubDepartmentsService) Create(ctx context.Context, name string) (*models.Department, error) {
	return &models.Department{ID: uuid.New(), Name: name}, nil
}

func (stubDepartmentsService) List(ctx context.Context) ([]models.Department, error) {
	return []models.Department{}, nil
}

func (stubDepartmentsService) Get(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	return &models.Department{ID: id}, nil
}

func (stubDepartmentsService) Update(ctx context.Context, id uuid.UUID, name string) (*models.Department, error) {
	return &models.Department{ID: id, Name: name}, nil
}

func (stubDepartmentsService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubUsersService struct{}

func (stubUsersService) Create(ctx context.Context, req usersvc.CreateRequest) (*models.User, error) {
	return &models.User{ID: uuid.New()}, nil
}

func (stubUsersService) List(ctx context.Context, filter usersvc.ListFilter) ([]models.User, error) {
	return []models.User{}, nil
}

func (stubUsersService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (stubUsersService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return &models.User{Username: username}, nil
}

func (stubUsersService) Update(ctx context.Context, id uuid.UUID, req usersvc.UpdateRequest) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (stubUsersService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubItemsService struct{}

func (stubItemsService) Create(ctx context.Context, req itemsvc.CreateRequest) (*models.Item, error) {
	return &models.Item{ID: uuid.New()}, nil
}

func (stubItemsService) List(ctx context.Context, nameFilter string) ([]models.Item, error) {
	return []models.Item{}, nil
}

func (stubItemsService) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return &models.Item{ID: id}, nil
}

func (stubItemsService) Update(ctx context.Context, id uuid.UUID, req itemsvc.UpdateRequest) (*models.Item, error) {
	return &models.Item{ID: id}, nil
}

func (stubItemsService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubStockService struct{}

func (stubStockService) Create(ctx context.Context, req stocksvc.CreateRequest) (*models.Stock, error) {
	return &models.Stock{ID: uuid.New()}, nil
}

func (stubStockService) List(ctx context.Context) ([]models.Stock, error) {
	return []models.Stock{}, nil
}

func (stubStockService) Get(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	return &models.Stock{ID: id}, nil
}

func (stubStockService) Update(ctx context.Context, id uuid.UUID, req stocksvc.UpdateRequest) (*models.Stock, error) {
	return &models.Stock{ID: id}, nil
}

func (stubStockService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubStockService) Alert(ctx context.Context, stockID uuid.UUID, recipientOverride string) (bool, error) {
	return true, nil
}

func (stubStockService) AlertByItem(ctx context.Context, itemID uuid.UUID, recipientOverride string) (bool, error) {
	return true, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Create(ctx context.Context, actor ordersvc.Actor, req ordersvc.CreateRequest) (*ordersvc.Detail, error) {
	return &ordersvc.Detail{Order: &models.Order{ID: uuid.New()}}, nil
}

func (stubOrdersService) Get(ctx context.Context, id uuid.UUID) (*ordersvc.Detail, error) {
	return &ordersvc.Detail{Order: &models.Order{ID: id}}, nil
}

func (stubOrdersService) List(ctx context.Context, actor ordersvc.Actor, filters ordersvc.ListFilters) ([]ordersvc.Detail, error) {
	return []ordersvc.Detail{}, nil
}

func (stubOrdersService) RecordStatus(ctx context.Context, actor *ordersvc.Actor, orderID uuid.UUID, req ordersvc.RecordStatusRequest) (*models.OrderStatus, error) {
	return &models.OrderStatus{ID: uuid.New(), OrderID: orderID}, nil
}

func (stubOrdersService) ListStatuses(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error) {
	return []models.OrderStatus{}, nil
}

func (stubOrdersService) DeleteStatus(ctx context.Context, statusID uuid.UUID) error {
	return nil
}

func (stubOrdersService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubOrdersService) Notify(ctx context.Context, orderID uuid.UUID, recipientOverride string) (bool, error) {
	return true, nil
}

func (stubOrdersService) RecordPublicStatus(ctx context.Context, orderID uuid.UUID, req ordersvc.RecordStatusRequest, recipientOverride string) (*models.OrderStatus, bool, error) {
	return &models.OrderStatus{ID: uuid.New(), OrderID: orderID}, true, nil
}

func (stubOrdersService) ListOrderItems(ctx context.Context, orderID *uuid.UUID) ([]models.OrderItem, error) {
	return []models.OrderItem{}, nil
}

func (stubOrdersService) GetOrderItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	return &models.OrderItem{ID: id}, nil
}

func (stubOrdersService) UpdateOrderItem(ctx context.Context, id uuid.UUID, req ordersvc.UpdateOrderItemRequest) (*models.OrderItem, error) {
	return &models.OrderItem{ID: id, Quantity: req.Quantity}, nil
}

func (stubOrdersService) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubOrdersRepo struct{}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) ordersvc.Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return nil
}

func (s *stubOrdersRepo) CreateStatus(ctx context.Context, row *models.OrderStatus) (*models.OrderStatus, error) {
	return row, nil
}

func (s *stubOrdersRepo) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, at time.Time) error {
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) List(ctx context.Context, filters ordersvc.ListFilters) ([]models.Order, error) {
	return []models.Order{}, nil
}

func (s *stubOrdersRepo) ListStatuses(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error) {
	return []models.OrderStatus{}, nil
}

func (s *stubOrdersRepo) DeleteStatus(ctx context.Context, statusID uuid.UUID) error {
	return nil
}

func (s *stubOrdersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s *stubOrdersRepo) ListOrderItems(ctx context.Context, orderID *uuid.UUID) ([]models.OrderItem, error) {
	return []models.OrderItem{}, nil
}

func (s *stubOrdersRepo) FindOrderItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) UpdateOrderItemQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return nil
}

func (s *stubOrdersRepo) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubCommentsService struct{}

func (stubCommentsService) Create(ctx context.Context, actor commentsvc.Actor, req commentsvc.CreateRequest) (*models.Comment, error) {
	return &models.Comment{ID: uuid.New()}, nil
}

func (stubCommentsService) List(ctx context.Context) ([]models.Comment, error) {
	return []models.Comment{}, nil
}

func (stubCommentsService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Comment, error) {
	return []models.Comment{}, nil
}

func (stubCommentsService) Get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return &models.Comment{ID: id}, nil
}

func (stubCommentsService) Update(ctx context.Context, actor commentsvc.Actor, id uuid.UUID, req commentsvc.UpdateRequest) (*models.Comment, error) {
	return &models.Comment{ID: id}, nil
}

func (stubCommentsService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubAttachmentsService struct{}

func (stubAttachmentsService) Create(ctx context.Context, uploaderID uuid.UUID, req attachsvc.CreateRequest) (*models.Attachment, error) {
	return &models.Attachment{ID: uuid.New()}, nil
}

func (stubAttachmentsService) List(ctx context.Context) ([]models.Attachment, error) {
	return []models.Attachment{}, nil
}

func (stubAttachmentsService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Attachment, error) {
	return []models.Attachment{}, nil
}

func (stubAttachmentsService) Get(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	return &models.Attachment{ID: id}, nil
}

func (stubAttachmentsService) Update(ctx context.Context, id uuid.UUID, req attachsvc.UpdateRequest) (*models.Attachment, error) {
	return &models.Attachment{ID: id}, nil
}

func (stubAttachmentsService) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubChatService struct{}

func (stubChatService) FindOrCreate(ctx context.Context, requesterID uuid.UUID, participantIDs []uuid.UUID) (*models.Conversation, error) {
	return &models.Conversation{ID: uuid.New()}, nil
}

func (stubChatService) FindByUsername(ctx context.Context, requesterID uuid.UUID, username string) (*models.Conversation, error) {
	return &models.Conversation{ID: uuid.New()}, nil
}

func (stubChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	return []models.Conversation{}, nil
}

func (stubChatService) GetConversation(ctx context.Context, requesterID, conversationID uuid.UUID) (*models.Conversation, error) {
	return &models.Conversation{ID: conversationID}, nil
}

func (stubChatService) PostMessage(ctx context.Context, senderID, conversationID uuid.UUID, body string) (*models.Message, error) {
	return &models.Message{ID: uuid.New(), ConversationID: conversationID, Body: body}, nil
}

func (stubChatService) ListMessages(ctx context.Context, requesterID, conversationID uuid.UUID) ([]models.Message, error) {
	return []models.Message{}, nil
}

func (stubChatService) MarkRead(ctx context.Context, readerID, conversationID uuid.UUID) (int64, error) {
	return 0, nil
}

type stubNotifier struct{}

func (stubNotifier) SendSync(ctx context.Context, n notify.Notification) bool {
	return true
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "routing-test-secret",
			Issuer:                 "distributech",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
		Mail: config.MailConfig{OpsMailbox: "inventory@distributech.io"},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubSessionChecker{},
		nil,
		nil,
		Services{
			Auth:        stubAuthService{},
			Roles:       stubRolesService{},
			Departments: stubDepartmentsService{},
			Users:       stubUsersService{},
			Items:       stubItemsService{},
			Stock:       stubStockService{},
			Orders:      stubOrdersService{},
			OrdersRepo:  &stubOrdersRepo{},
			Comments:    stubCommentsService{},
			Attachments: stubAttachmentsService{},
			Chat:        stubChatService{},
			Notifier:    stubNotifier{},
		},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	deptID := uuid.New()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:       uuid.New(),
		Username:     "router-test",
		Role:         role,
		DepartmentID: &deptID,
		JTI:          uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPublicMirrorsNeedNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{
		"/api/public/roles",
		"/api/public/departments",
		"/api/public/items",
		"/api/public/stock",
		"/api/public/orders",
		"/api/public/order-items",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestRoleWriteRequiresSuperAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	staff := httptest.NewRequest(http.MethodPost, "/api/v1/roles", strings.NewReader(`{"name":"Supplier"}`))
	staff.Header.Set("Content-Type", "application/json")
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff role write got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/v1/roles", strings.NewReader(`{"name":"Supplier"}`))
	admin.Header.Set("Content-Type", "application/json")
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSuperAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for superadmin role write got %d", resp.Code)
	}
}

func TestOrderCreateAllowedForDepartmentManager(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{"items":[{"item_id":"` + uuid.NewString() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleDepartmentManager))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for department manager order got %d", resp.Code)
	}
}

func TestOrderCreateForbiddenForSuperAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{"items":[{"item_id":"` + uuid.NewString() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleSuperAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for superadmin order create got %d", resp.Code)
	}
}

func TestOrderCreateForbiddenForStaff(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	body := `{"items":[{"item_id":"` + uuid.NewString() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff order create got %d", resp.Code)
	}
}

func TestChatRoutesAcceptAnyAuthenticatedRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for conversation listing got %d", resp.Code)
	}
}

func TestPublicOrderStatusRoute(t *testing.T) {
	router := newTestRouter(testConfig())

	body := `{"status":"In Transit","current_location":"Hub 4"}`
	req := httptest.NewRequest(http.MethodPost, "/api/public/orders/"+uuid.NewString()+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for public status update got %d", resp.Code)
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}
