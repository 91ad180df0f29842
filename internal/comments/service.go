package comments

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/distributech/distributech-backend/internal/access"
	"github.com/distributech/distributech-backend/pkg/db/models"
	"github.com/distributech/distributech-backend/pkg/enums"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
)

// CreateRequest is the payload for posting a comment on an order.
type CreateRequest struct {
	OrderID     string `json:"order_id" validate:"required,uuid4"`
	CommentText string `json:"comment_text" validate:"required"`
}

// UpdateRequest replaces the comment body.
type UpdateRequest struct {
	CommentText string `json:"comment_text" validate:"required"`
}

// Actor identifies who is performing a comment operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

// Service defines comment operations on orders.
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateRequest) (*models.Comment, error)
	List(ctx context.Context) ([]models.Comment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Comment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRequest) (*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderChecker confirms the target order exists before a comment is written.
type OrderChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// OrderCheckerFunc adapts a lookup function to OrderChecker.
type OrderCheckerFunc func(ctx context.Context, id uuid.UUID) (bool, error)

func (f OrderCheckerFunc) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f(ctx, id)
}

type service struct {
	repo   Repository
	orders OrderChecker
}

// NewService wires comment dependencies.
func NewService(repo Repository, orders OrderChecker) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "comments repository required")
	}
	if orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order checker required")
	}
	return &service{repo: repo, orders: orders}, nil
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateRequest) (*models.Comment, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}
	text := strings.TrimSpace(req.CommentText)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment text required")
	}

	ok, err := s.orders.Exists(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	created, err := s.repo.Create(ctx, &models.Comment{
		OrderID:     orderID,
		UserID:      actor.UserID,
		CommentText: text,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}
	return created, nil
}

func (s *service) List(ctx context.Context) ([]models.Comment, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	return rows, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Comment, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	rows, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	return rows, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment id required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "comment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find comment")
	}
	return row, nil
}

// Update rewrites the comment body. Only the author or a SuperAdmin may edit.
func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateRequest) (*models.Comment, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanEditComment(actor.Role, row.UserID, actor.UserID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the author may edit this comment")
	}

	text := strings.TrimSpace(req.CommentText)
	if text == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment text required")
	}
	if err := s.repo.UpdateText(ctx, id, text); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update comment")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comment")
	}
	return nil
}
