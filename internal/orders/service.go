package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/distributech/distributech-backend/internal/access"
	"github.com/distributech/distributech-backend/internal/items"
	"github.com/distributech/distributech-backend/internal/notify"
	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/db/models"
	"github.com/distributech/distributech-backend/pkg/enums"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
	"github.com/distributech/distributech-backend/pkg/logger"
)

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Notifier is the dispatcher surface the orders service depends on.
type Notifier interface {
	Enqueue(ctx context.Context, n notify.Notification) bool
	SendSync(ctx context.Context, n notify.Notification) bool
}

// Actor identifies who is performing an operation.
type Actor struct {
	UserID       uuid.UUID
	Role         enums.Role
	DepartmentID *uuid.UUID
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateRequest) (*Detail, error)
	Get(ctx context.Context, id uuid.UUID) (*Detail, error)
	List(ctx context.Context, actor Actor, filters ListFilters) ([]Detail, error)
	RecordStatus(ctx context.Context, actor *Actor, orderID uuid.UUID, req RecordStatusRequest) (*models.OrderStatus, error)
	ListStatuses(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error)
	DeleteStatus(ctx context.Context, statusID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Notify(ctx context.Context, orderID uuid.UUID, recipientOverride string) (bool, error)
	RecordPublicStatus(ctx context.Context, orderID uuid.UUID, req RecordStatusRequest, recipientOverride string) (*models.OrderStatus, bool, error)
	ListOrderItems(ctx context.Context, orderID *uuid.UUID) ([]models.OrderItem, error)
	GetOrderItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	UpdateOrderItem(ctx context.Context, id uuid.UUID, req UpdateOrderItemRequest) (*models.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	items    items.Repository
	tx       TxRunner
	notifier Notifier
	logg     *logger.Logger
	mailCfg  config.MailConfig
}

// NewService wires order dependencies.
func NewService(repo Repository, itemsRepo items.Repository, tx TxRunner, notifier Notifier, logg *logger.Logger, mailCfg config.MailConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if itemsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "items repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:     repo,
		items:    itemsRepo,
		tx:       tx,
		notifier: notifier,
		logg:     logg,
		mailCfg:  mailCfg,
	}, nil
}

// Create places an order from the requested lines. Prices are snapshotted
// from the catalog inside the same transaction that writes the order.
func (s *service) Create(ctx context.Context, actor Actor, req CreateRequest) (*Detail, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}

	itemIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		id, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item id")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		itemIDs = append(itemIDs, id)
	}

	catalog, err := s.items.FindByIDs(ctx, itemIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load items")
	}
	byID := make(map[uuid.UUID]models.Item, len(catalog))
	for _, item := range catalog {
		byID[item.ID] = item
	}
	for _, id := range itemIDs {
		if _, ok := byID[id]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown item in order")
		}
	}

	now := time.Now().UTC()
	order := &models.Order{
		UserID: actor.UserID,
		Status: enums.OrderStatusPending,
	}

	var lines []models.OrderItem
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.CreateOrder(ctx, order); err != nil {
			return err
		}

		lines = make([]models.OrderItem, 0, len(req.Items))
		for i, line := range req.Items {
			item := byID[itemIDs[i]]
			lines = append(lines, models.OrderItem{
				OrderID:          order.ID,
				ItemID:           item.ID,
				Quantity:         line.Quantity,
				PriceAtOrderTime: item.Price,
			})
		}
		if err := txRepo.CreateOrderItems(ctx, lines); err != nil {
			return err
		}

		_, err := txRepo.CreateStatus(ctx, &models.OrderStatus{
			OrderID:           order.ID,
			Status:            enums.OrderStatusPending,
			LocationTimestamp: now,
			UpdatedByID:       &actor.UserID,
		})
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	detail, err := s.Get(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.enqueueOrderCreated(ctx, detail)
	return detail, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	return buildDetail(row), nil
}

// List returns orders visible to the actor. Department Managers only see
// orders placed by users of their own department.
func (s *service) List(ctx context.Context, actor Actor, filters ListFilters) ([]Detail, error) {
	switch access.Scope(actor.Role) {
	case access.OrderScopeAll:
		// keep requested filters as-is
	case access.OrderScopeDepartment:
		if actor.DepartmentID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no department assigned")
		}
		filters.DepartmentID = actor.DepartmentID
	default:
		return []Detail{}, nil
	}

	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	details := make([]Detail, 0, len(rows))
	for i := range rows {
		details = append(details, *buildDetail(&rows[i]))
	}
	return details, nil
}

// RecordStatus validates against the closed status set before touching the
// database, then appends the history row and overwrites the order status in
// one transaction.
func (s *service) RecordStatus(ctx context.Context, actor *Actor, orderID uuid.UUID, req RecordStatusRequest) (*models.OrderStatus, error) {
	status, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}
	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := &models.OrderStatus{
		OrderID:              orderID,
		Status:               status,
		CurrentLocation:      req.CurrentLocation,
		LocationTimestamp:    now,
		Remarks:              req.Remarks,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
	}
	if actor != nil {
		row.UpdatedByID = &actor.UserID
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.CreateStatus(ctx, row); err != nil {
			return err
		}
		return txRepo.UpdateOrderStatus(ctx, orderID, status, now)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order status")
	}
	return row, nil
}

func (s *service) ListStatuses(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	rows, err := s.repo.ListStatuses(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order statuses")
	}
	return rows, nil
}

func (s *service) DeleteStatus(ctx context.Context, statusID uuid.UUID) error {
	if statusID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "status id required")
	}
	if err := s.repo.DeleteStatus(ctx, statusID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order status")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

// Notify sends the order notification synchronously and reports delivery
// success. Transport failure is not an error.
func (s *service) Notify(ctx context.Context, orderID uuid.UUID, recipientOverride string) (bool, error) {
	detail, err := s.Get(ctx, orderID)
	if err != nil {
		return false, err
	}

	recipient := strings.TrimSpace(recipientOverride)
	if recipient == "" && detail.Order.User != nil {
		recipient = detail.Order.User.Email
	}
	if recipient == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "no recipient available")
	}

	n, err := notify.NewOrderCreated(recipient, orderCreatedData(detail))
	if err != nil {
		s.logg.Error(ctx, "order notification render failed", err)
		return false, nil
	}
	return s.notifier.SendSync(ctx, n), nil
}

// RecordPublicStatus appends a status on behalf of an anonymous caller and
// sends a status change notification.
func (s *service) RecordPublicStatus(ctx context.Context, orderID uuid.UUID, req RecordStatusRequest, recipientOverride string) (*models.OrderStatus, bool, error) {
	row, err := s.RecordStatus(ctx, nil, orderID, req)
	if err != nil {
		return nil, false, err
	}

	recipient := strings.TrimSpace(recipientOverride)
	if recipient == "" {
		recipient = s.mailCfg.OpsMailbox
	}

	data := notify.StatusChangeData{
		OrderID:    shortID(orderID),
		Status:     row.Status.String(),
		RecordedAt: row.LocationTimestamp,
	}
	if row.CurrentLocation != nil {
		data.CurrentLocation = *row.CurrentLocation
	}
	if row.Remarks != nil {
		data.Remarks = *row.Remarks
	}

	n, err := notify.NewStatusChange(recipient, data)
	if err != nil {
		s.logg.Error(ctx, "status notification render failed", err)
		return row, false, nil
	}
	return row, s.notifier.SendSync(ctx, n), nil
}

func (s *service) ListOrderItems(ctx context.Context, orderID *uuid.UUID) ([]models.OrderItem, error) {
	rows, err := s.repo.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order items")
	}
	return rows, nil
}

func (s *service) GetOrderItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order item id required")
	}
	row, err := s.repo.FindOrderItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order item")
	}
	return row, nil
}

// UpdateOrderItem changes the ordered quantity. The snapshotted unit price is
// never recomputed.
func (s *service) UpdateOrderItem(ctx context.Context, id uuid.UUID, req UpdateOrderItemRequest) (*models.OrderItem, error) {
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if _, err := s.GetOrderItem(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOrderItemQuantity(ctx, id, req.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order item")
	}
	return s.GetOrderItem(ctx, id)
}

func (s *service) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetOrderItem(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteOrderItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order item")
	}
	return nil
}

func (s *service) enqueueOrderCreated(ctx context.Context, detail *Detail) {
	if detail.Order.User == nil || detail.Order.User.Email == "" {
		return
	}
	n, err := notify.NewOrderCreated(detail.Order.User.Email, orderCreatedData(detail))
	if err != nil {
		s.logg.Error(ctx, "order notification render failed", err)
		return
	}
	s.notifier.Enqueue(ctx, n)
}

func buildDetail(order *models.Order) *Detail {
	lines := make([]LineDetail, 0, len(order.Items))
	total := decimal.Zero
	for _, item := range order.Items {
		lineTotal := item.LineTotal()
		total = total.Add(lineTotal)
		line := LineDetail{
			ID:               item.ID,
			ItemID:           item.ItemID,
			Quantity:         item.Quantity,
			PriceAtOrderTime: item.PriceAtOrderTime,
			LineTotal:        lineTotal,
		}
		if item.Item != nil {
			line.ItemName = item.Item.Name
		}
		lines = append(lines, line)
	}
	return &Detail{Order: order, Lines: lines, Total: total}
}

func orderCreatedData(detail *Detail) notify.OrderCreatedData {
	data := notify.OrderCreatedData{
		OrderID:   shortID(detail.Order.ID),
		Status:    detail.Order.Status.String(),
		CreatedAt: detail.Order.CreatedAt,
		Total:     detail.Total.StringFixed(2),
	}
	if detail.Order.User != nil && detail.Order.User.Department != nil {
		data.Department = detail.Order.User.Department.Name
	}
	for _, line := range detail.Lines {
		data.Lines = append(data.Lines, notify.OrderLine{
			Name:      line.ItemName,
			Quantity:  line.Quantity,
			UnitPrice: line.PriceAtOrderTime.StringFixed(2),
			LineTotal: line.LineTotal.StringFixed(2),
		})
	}
	return data
}

// shortID keeps email subjects readable.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
