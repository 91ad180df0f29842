package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/distributech/distributech-backend/api/controllers"
	"github.com/distributech/distributech-backend/api/middleware"
	"github.com/distributech/distributech-backend/internal/access"
	attachsvc "github.com/distributech/distributech-backend/internal/attachments"
	authsvc "github.com/distributech/distributech-backend/internal/auth"
	chatsvc "github.com/distributech/distributech-backend/internal/chat"
	commentsvc "github.com/distributech/distributech-backend/internal/comments"
	deptsvc "github.com/distributech/distributech-backend/internal/departments"
	itemsvc "github.com/distributech/distributech-backend/internal/items"
	ordersvc "github.com/distributech/distributech-backend/internal/orders"
	rolesvc "github.com/distributech/distributech-backend/internal/roles"
	stocksvc "github.com/distributech/distributech-backend/internal/stock"
	usersvc "github.com/distributech/distributech-backend/internal/users"
	"github.com/distributech/distributech-backend/pkg/auth/session"
	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/logger"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth        authsvc.Service
	Roles       rolesvc.Service
	Departments deptsvc.Service
	Users       usersvc.Service
	Items       itemsvc.Service
	Stock       stocksvc.Service
	Orders      ordersvc.Service
	OrdersRepo  ordersvc.Repository
	Comments    commentsvc.Service
	Attachments attachsvc.Service
	Chat        chatsvc.Service
	Notifier    controllers.Notifier
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessions session.AccessSessionChecker,
	readiness map[string]controllers.Pinger,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(svcs.Auth, logg))
		r.Post("/refresh", controllers.RefreshToken(svcs.Auth, logg))
		r.Post("/logout", controllers.Logout(svcs.Auth, logg))
	})

	// Unauthenticated read-only mirrors plus the anonymous status update
	// used by carriers.
	r.Route("/api/public", func(r chi.Router) {
		r.Get("/roles", controllers.ListRoles(svcs.Roles, logg))
		r.Get("/departments", controllers.ListDepartments(svcs.Departments, logg))
		r.Get("/items", controllers.ListItems(svcs.Items, logg))
		r.Get("/stock", controllers.ListStock(svcs.Stock, logg))
		r.Get("/order-items", controllers.ListOrderItems(svcs.Orders, logg))
		r.Get("/order-status", controllers.PublicListOrderStatuses(svcs.Orders, logg))
		r.Get("/orders", controllers.PublicListOrders(svcs.OrdersRepo, logg))
		r.Get("/orders/{orderId}", controllers.GetOrder(svcs.Orders, logg))
		r.Post("/orders/{orderId}/status", controllers.PublicOrderStatus(svcs.Orders, logg))
		r.Post("/email/test", controllers.TestEmail(svcs.Notifier, cfg.Mail, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/roles", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionRoleWrite, logg)).Post("/", controllers.CreateRole(svcs.Roles, logg))
			r.With(middleware.RequireAction(access.ActionRoleRead, logg)).Get("/", controllers.ListRoles(svcs.Roles, logg))
			r.With(middleware.RequireAction(access.ActionRoleRead, logg)).Get("/{roleId}", controllers.GetRole(svcs.Roles, logg))
			r.With(middleware.RequireAction(access.ActionRoleWrite, logg)).Delete("/{roleId}", controllers.DeleteRole(svcs.Roles, logg))
		})

		r.Route("/departments", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionDepartmentWrite, logg)).Post("/", controllers.CreateDepartment(svcs.Departments, logg))
			r.With(middleware.RequireAction(access.ActionDepartmentRead, logg)).Get("/", controllers.ListDepartments(svcs.Departments, logg))
			r.With(middleware.RequireAction(access.ActionDepartmentRead, logg)).Get("/{departmentId}", controllers.GetDepartment(svcs.Departments, logg))
			r.With(middleware.RequireAction(access.ActionDepartmentWrite, logg)).Put("/{departmentId}", controllers.UpdateDepartment(svcs.Departments, logg))
			r.With(middleware.RequireAction(access.ActionDepartmentWrite, logg)).Delete("/{departmentId}", controllers.DeleteDepartment(svcs.Departments, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionUserWrite, logg)).Post("/", controllers.CreateUser(svcs.Users, logg))
			r.With(middleware.RequireAction(access.ActionUserRead, logg)).Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Get("/me", controllers.CurrentUser(svcs.Users, logg))
			r.With(middleware.RequireAction(access.ActionUserRead, logg)).Get("/{userId}", controllers.GetUser(svcs.Users, logg))
			r.With(middleware.RequireAction(access.ActionUserWrite, logg)).Put("/{userId}", controllers.UpdateUser(svcs.Users, logg))
			r.With(middleware.RequireAction(access.ActionUserWrite, logg)).Delete("/{userId}", controllers.DeleteUser(svcs.Users, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionItemWrite, logg)).Post("/", controllers.CreateItem(svcs.Items, logg))
			r.With(middleware.RequireAction(access.ActionItemRead, logg)).Get("/", controllers.ListItems(svcs.Items, logg))
			r.With(middleware.RequireAction(access.ActionItemRead, logg)).Get("/{itemId}", controllers.GetItem(svcs.Items, logg))
			r.With(middleware.RequireAction(access.ActionItemWrite, logg)).Put("/{itemId}", controllers.UpdateItem(svcs.Items, logg))
			r.With(middleware.RequireAction(access.ActionItemWrite, logg)).Delete("/{itemId}", controllers.DeleteItem(svcs.Items, logg))
			r.With(middleware.RequireAction(access.ActionStockWrite, logg)).Post("/{itemId}/stock-alert", controllers.ItemStockAlert(svcs.Stock, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionStockWrite, logg)).Post("/", controllers.CreateStock(svcs.Stock, logg))
			r.With(middleware.RequireAction(access.ActionStockRead, logg)).Get("/", controllers.ListStock(svcs.Stock, logg))
			r.With(middleware.RequireAction(access.ActionStockRead, logg)).Get("/{stockId}", controllers.GetStock(svcs.Stock, logg))
			r.With(middleware.RequireAction(access.ActionStockWrite, logg)).Put("/{stockId}", controllers.UpdateStock(svcs.Stock, logg))
			r.With(middleware.RequireAction(access.ActionStockDelete, logg)).Delete("/{stockId}", controllers.DeleteStock(svcs.Stock, logg))
			r.With(middleware.RequireAction(access.ActionStockWrite, logg)).Post("/{stockId}/alert", controllers.StockAlert(svcs.Stock, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionOrderCreate, logg)).Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionOrderRead, logg)).Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionOrderRead, logg)).Get("/{orderId}", controllers.GetOrder(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionOrderDelete, logg)).Delete("/{orderId}", controllers.DeleteOrder(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionOrderStatusCreate, logg)).Post("/{orderId}/status", controllers.RecordOrderStatus(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionOrderStatusRead, logg)).Get("/{orderId}/status", controllers.ListOrderStatuses(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionOrderUpdate, logg)).Post("/{orderId}/notify", controllers.NotifyOrder(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionCommentRead, logg)).Get("/{orderId}/comments", controllers.ListOrderComments(svcs.Comments, logg))
			r.With(middleware.RequireAction(access.ActionAttachmentRead, logg)).Get("/{orderId}/attachments", controllers.ListOrderAttachments(svcs.Attachments, logg))
		})

		r.Route("/order-status", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionOrderStatusDelete, logg)).Delete("/{statusId}", controllers.DeleteOrderStatus(svcs.Orders, logg))
		})

		r.Route("/order-items", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionOrderItemRead, logg)).Get("/", controllers.ListOrderItems(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionOrderItemRead, logg)).Get("/{orderItemId}", controllers.GetOrderItem(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionOrderItemWrite, logg)).Put("/{orderItemId}", controllers.UpdateOrderItem(svcs.Orders, logg))
			r.With(middleware.RequireAction(access.ActionOrderItemWrite, logg)).Delete("/{orderItemId}", controllers.DeleteOrderItem(svcs.Orders, logg))
		})

		r.Route("/comments", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionCommentCreate, logg)).Post("/", controllers.CreateComment(svcs.Comments, logg))
			r.With(middleware.RequireAction(access.ActionCommentRead, logg)).Get("/", controllers.ListComments(svcs.Comments, logg))
			r.With(middleware.RequireAction(access.ActionCommentRead, logg)).Get("/{commentId}", controllers.GetComment(svcs.Comments, logg))
			// ownership is enforced in the service; any authenticated
			// commenter may attempt the edit
			r.With(middleware.RequireAction(access.ActionCommentCreate, logg)).Put("/{commentId}", controllers.UpdateComment(svcs.Comments, logg))
			r.With(middleware.RequireAction(access.ActionCommentDelete, logg)).Delete("/{commentId}", controllers.DeleteComment(svcs.Comments, logg))
		})

		r.Route("/attachments", func(r chi.Router) {
			r.With(middleware.RequireAction(access.ActionAttachmentCreate, logg)).Post("/", controllers.CreateAttachment(svcs.Attachments, logg))
			r.With(middleware.RequireAction(access.ActionAttachmentRead, logg)).Get("/", controllers.ListAttachments(svcs.Attachments, logg))
			r.With(middleware.RequireAction(access.ActionAttachmentRead, logg)).Get("/{attachmentId}", controllers.GetAttachment(svcs.Attachments, logg))
			r.With(middleware.RequireAction(access.ActionAttachmentManage, logg)).Put("/{attachmentId}", controllers.UpdateAttachment(svcs.Attachments, logg))
			r.With(middleware.RequireAction(access.ActionAttachmentManage, logg)).Delete("/{attachmentId}", controllers.DeleteAttachment(svcs.Attachments, logg))
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Use(middleware.RequireAction(access.ActionChatUse, logg))
			r.Post("/", controllers.FindOrCreateConversation(svcs.Chat, logg))
			r.Post("/find-or-create", controllers.FindOrCreateConversation(svcs.Chat, logg))
			r.Post("/find-by-username", controllers.FindConversationByUsername(svcs.Chat, logg))
			r.Get("/", controllers.ListConversations(svcs.Chat, logg))
			r.Get("/{conversationId}", controllers.GetConversation(svcs.Chat, logg))
			r.Post("/{conversationId}/messages", controllers.PostMessage(svcs.Chat, logg))
			r.Get("/{conversationId}/messages", controllers.ListMessages(svcs.Chat, logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(middleware.RequireAction(access.ActionChatUse, logg))
			r.Post("/mark-read", controllers.MarkMessagesRead(svcs.Chat, logg))
		})

		r.Post("/email/test", controllers.TestEmail(svcs.Notifier, cfg.Mail, logg))
	})

	return r
}
