package attachments

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributech/distributech-backend/pkg/db/models"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
)

// CreateRequest is the payload for linking a file to an order.
type CreateRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid4"`
	FileURL string `json:"file_url" validate:"required,url"`
}

// UpdateRequest replaces the stored file URL.
type UpdateRequest struct {
	FileURL string `json:"file_url" validate:"required,url"`
}

// OrderChecker confirms the target order exists before an attachment is
// written.
type OrderChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// OrderCheckerFunc adapts a lookup function to OrderChecker.
type OrderCheckerFunc func(ctx context.Context, id uuid.UUID) (bool, error)

func (f OrderCheckerFunc) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f(ctx, id)
}

// Service defines attachment operations on orders. Files live outside this
// system; only their URLs are stored.
type Service interface {
	Create(ctx context.Context, uploaderID uuid.UUID, req CreateRequest) (*models.Attachment, error)
	List(ctx context.Context) ([]models.Attachment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Attachment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	orders OrderChecker
}

// NewService wires attachment dependencies.
func NewService(repo Repository, orders OrderChecker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "attachments repository required")
	}
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order checker required")
	}
	return &service{repo: repo, orders: orders}, nil
}

func (s *service) Create(ctx context.Context, uploaderID uuid.UUID, req CreateRequest) (*models.Attachment, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	fileURL, err := normalizeFileURL(req.FileURL)
	if err != nil {
		return nil, err
	}
	if uploaderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "uploader required")
	}

	ok, err := s.orders.Exists(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	created, err := s.repo.Create(ctx, &models.Attachment{
		OrderID:      orderID,
		UploadedByID: uploaderID,
		FileURL:      fileURL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create attachment")
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Attachment, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attachments")
	}
	return rows, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Attachment, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	rows, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attachments")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Attachment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attachment id required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "attachment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find attachment")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Attachment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	fileURL, err := normalizeFileURL(req.FileURL)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFileURL(ctx, id, fileURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update attachment")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete attachment")
	}
	return nil
}

func normalizeFileURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "file url must be absolute")
	}
	return trimmed, nil
}
