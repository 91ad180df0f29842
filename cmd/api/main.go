package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/distributech/distributech-backend/api/controllers"
	"github.com/distributech/distributech-backend/api/routes"
	attachsvc "github.com/distributech/distributech-backend/internal/attachments"
	authsvc "github.com/distributech/distributech-backend/internal/auth"
	chatsvc "github.com/distributech/distributech-backend/internal/chat"
	commentsvc "github.com/distributech/distributech-backend/internal/comments"
	deptsvc "github.com/distributech/distributech-backend/internal/departments"
	itemsvc "github.com/distributech/distributech-backend/internal/items"
	"github.com/distributech/distributech-backend/internal/notify"
	ordersvc "github.com/distributech/distributech-backend/internal/orders"
	rolesvc "github.com/distributech/distributech-backend/internal/roles"
	stocksvc "github.com/distributech/distributech-backend/internal/stock"
	usersvc "github.com/distributech/distributech-backend/internal/users"
	"github.com/distributech/distributech-backend/pkg/auth/session"
	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/db"
	pkgerrors "github.com/distributech/distributech-backend/pkg/errors"
	"github.com/distributech/distributech-backend/pkg/logger"
	"github.com/distributech/distributech-backend/pkg/mail"
	"github.com/distributech/distributech-backend/pkg/metrics"
	"github.com/distributech/distributech-backend/pkg/migrate"
	"github.com/distributech/distributech-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	mailMetrics := metrics.NewMailMetrics(registry)

	smtpSender, err := mail.NewSMTPSender(cfg.SMTP)
	if err != nil {
		logg.Error(context.Background(), "failed to configure smtp sender", err)
		os.Exit(1)
	}
	dispatcher, err := notify.NewDispatcher(smtpSender, logg, mailMetrics, cfg.Mail)
	if err != nil {
		logg.Error(context.Background(), "failed to create mail dispatcher", err)
		os.Exit(1)
	}
	dispatcher.Start()
	defer dispatcher.Close()

	gdb := dbClient.DB()
	usersRepo := usersvc.NewRepository(gdb)
	itemsRepo := itemsvc.NewRepository(gdb)
	ordersRepo := ordersvc.NewRepository(gdb)

	roleService, err := rolesvc.NewService(rolesvc.NewRepository(gdb))
	exitOnErr(logg, err, "roles service")
	departmentService, err := deptsvc.NewService(deptsvc.NewRepository(gdb))
	exitOnErr(logg, err, "departments service")
	userService, err := usersvc.NewService(usersRepo, cfg.Password)
	exitOnErr(logg, err, "users service")
	itemService, err := itemsvc.NewService(itemsRepo)
	exitOnErr(logg, err, "items service")
	stockService, err := stocksvc.NewService(stocksvc.NewRepository(gdb), dispatcher, logg, cfg.Mail)
	exitOnErr(logg, err, "stock service")
	orderService, err := ordersvc.NewService(ordersRepo, itemsRepo, dbClient, dispatcher, logg, cfg.Mail)
	exitOnErr(logg, err, "orders service")
	commentService, err := commentsvc.NewService(commentsvc.NewRepository(gdb), commentsvc.OrderCheckerFunc(orderExists(orderService)))
	exitOnErr(logg, err, "comments service")
	attachmentService, err := attachsvc.NewService(attachsvc.NewRepository(gdb), attachsvc.OrderCheckerFunc(orderExists(orderService)))
	exitOnErr(logg, err, "attachments service")
	chatService, err := chatsvc.NewService(chatsvc.NewRepository(gdb), usersRepo, dbClient)
	exitOnErr(logg, err, "chat service")
	authService, err := authsvc.NewService(usersRepo, sessionManager, redisClient, logg, cfg.JWT, cfg.AuthRateLimit)
	exitOnErr(logg, err, "auth service")

	handler := routes.NewRouter(
		cfg,
		logg,
		sessionManager,
		map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		},
		registry,
		routes.Services{
			Auth:        authService,
			Roles:       roleService,
			Departments: departmentService,
			Users:       userService,
			Items:       itemService,
			Stock:       stockService,
			Orders:      orderService,
			OrdersRepo:  ordersRepo,
			Comments:    commentService,
			Attachments: attachmentService,
			Chat:        chatService,
			Notifier:    dispatcher,
		},
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "api server shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

// orderExists adapts the orders service into the existence check comments
// and attachments depend on.
func orderExists(svc ordersvc.Service) func(ctx context.Context, id uuid.UUID) (bool, error) {
	return func(ctx context.Context, id uuid.UUID) (bool, error) {
		if _, err := svc.Get(ctx, id); err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}
}

func exitOnErr(logg *logger.Logger, err error, what string) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+what, err)
		os.Exit(1)
	}
}
