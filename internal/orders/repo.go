package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributech/distributech-backend/pkg/db/models"
	"github.com/distributech/distributech-backend/pkg/enums"
)

// Repository defines persistence operations for orders and their history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	CreateStatus(ctx context.Context, row *models.OrderStatus) (*models.OrderStatus, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, at time.Time) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters) ([]models.Order, error)
	ListStatuses(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error)
	DeleteStatus(ctx context.Context, statusID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListOrderItems(ctx context.Context, orderID *uuid.UUID) ([]models.OrderItem, error)
	FindOrderItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	UpdateOrderItemQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	DeleteOrderItem(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Items", "Statuses", "User").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Omit("Item").Create(&items).Error
}

func (r *repository) CreateStatus(ctx context.Context, row *models.OrderStatus) (*models.OrderStatus, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("UpdatedBy").Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"status": status, "updated_at": at}).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("User.Department").
		Preload("User.Role").
		Preload("Items.Item").
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("User.Department").
		Preload("Items.Item").
		Order("orders.created_at DESC")
	if filters.Status != "" {
		query = query.Where("orders.status = ?", filters.Status)
	}
	if filters.DepartmentID != nil {
		query = query.
			Joins("JOIN users ON users.id = orders.user_id").
			Where("users.department_id = ?", *filters.DepartmentID)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListStatuses(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error) {
	var rows []models.OrderStatus
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) DeleteStatus(ctx context.Context, statusID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", statusID).Delete(&models.OrderStatus{}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{}).Error
}

func (r *repository) ListOrderItems(ctx context.Context, orderID *uuid.UUID) ([]models.OrderItem, error) {
	query := r.db.WithContext(ctx).Preload("Item")
	if orderID != nil {
		query = query.Where("order_id = ?", *orderID)
	}
	var rows []models.OrderItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindOrderItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var row models.OrderItem
	err := r.db.WithContext(ctx).Preload("Item").Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) UpdateOrderItemQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *repository) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OrderItem{}).Error
}
