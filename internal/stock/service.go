package stock

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributech/distributech-backend/internal/notify"
	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/db/models"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
	"github.com/distributech/distributech-backend/pkg/logger"
)

// Notifier is the dispatcher surface the stock service depends on.
type Notifier interface {
	Enqueue(ctx context.Context, n notify.Notification) bool
	SendSync(ctx context.Context, n notify.Notification) bool
}

// Service defines stock snapshot CRUD plus the low stock monitor.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.Stock, error)
	List(ctx context.Context) ([]models.Stock, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Stock, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Stock, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Alert(ctx context.Context, stockID uuid.UUID, recipientOverride string) (bool, error)
	AlertByItem(ctx context.Context, itemID uuid.UUID, recipientOverride string) (bool, error)
}

type service struct {
	repo     Repository
	notifier Notifier
	logg     *logger.Logger
	mailCfg  config.MailConfig
}

// NewService wires stock dependencies.
func NewService(repo Repository, notifier Notifier, logg *logger.Logger, mailCfg config.MailConfig) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stock repository required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, notifier: notifier, logg: logg, mailCfg: mailCfg}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.Stock, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item id")
	}
	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier id")
	}
	if req.CurrentStock < 0 || req.MinimumThreshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock values cannot be negative")
	}

	created, err := s.repo.Create(ctx, &models.Stock{
		ItemID:           itemID,
		CurrentStock:     req.CurrentStock,
		MinimumThreshold: req.MinimumThreshold,
		SupplierID:       supplierID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create stock")
	}

	s.monitor(ctx, created.ID)
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Stock, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Stock, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock id required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find stock")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Stock, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.CurrentStock != nil {
		if *req.CurrentStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock values cannot be negative")
		}
		updates["current_stock"] = *req.CurrentStock
	}
	if req.MinimumThreshold != nil {
		if *req.MinimumThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock values cannot be negative")
		}
		updates["minimum_threshold"] = *req.MinimumThreshold
	}
	if req.SupplierID != nil {
		supplierID, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid supplier id")
		}
		updates["supplier_id"] = supplierID
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
	}

	s.monitor(ctx, id)
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stock")
	}
	return nil
}

// Alert sends a low stock alert synchronously and reports delivery success.
func (s *service) Alert(ctx context.Context, stockID uuid.UUID, recipientOverride string) (bool, error) {
	row, err := s.Get(ctx, stockID)
	if err != nil {
		return false, err
	}
	return s.sendAlert(ctx, row, recipientOverride), nil
}

// AlertByItem resolves the snapshot through its item and sends the alert.
func (s *service) AlertByItem(ctx context.Context, itemID uuid.UUID, recipientOverride string) (bool, error) {
	if itemID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	row, err := s.repo.FindByItemID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.New(pkgerrors.CodeNotFound, "stock not found for item")
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find stock by item")
	}
	return s.sendAlert(ctx, row, recipientOverride), nil
}

// monitor enqueues a low stock alert whenever the snapshot sits at or below
// its threshold. Failures never surface to the caller; the write already
// happened.
func (s *service) monitor(ctx context.Context, id uuid.UUID) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logg.Error(ctx, "stock monitor reload failed", err)
		return
	}
	if !row.BelowThreshold() {
		return
	}

	n, err := s.buildAlert(row, "")
	if err != nil {
		s.logg.Error(ctx, "stock alert render failed", err)
		return
	}
	s.notifier.Enqueue(ctx, n)
}

func (s *service) sendAlert(ctx context.Context, row *models.Stock, recipientOverride string) bool {
	n, err := s.buildAlert(row, recipientOverride)
	if err != nil {
		s.logg.Error(ctx, "stock alert render failed", err)
		return false
	}
	return s.notifier.SendSync(ctx, n)
}

func (s *service) buildAlert(row *models.Stock, recipientOverride string) (notify.Notification, error) {
	recipient := strings.TrimSpace(recipientOverride)
	if recipient == "" {
		recipient = s.mailCfg.OpsMailbox
	}

	data := notify.LowStockData{
		CurrentStock:     row.CurrentStock,
		MinimumThreshold: row.MinimumThreshold,
	}
	if row.Item != nil {
		data.ItemName = row.Item.Name
		data.Price = row.Item.Price.StringFixed(2)
		if row.Item.MeasurementUnit != nil {
			data.MeasurementUnit = *row.Item.MeasurementUnit
		}
	}
	if row.Supplier != nil {
		data.SupplierUsername = row.Supplier.Username
	}

	return notify.NewLowStock(recipient, data)
}
