package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/distributech/distributech-backend/pkg/config"
	"github.com/distributech/distributech-backend/pkg/db"
	"github.com/distributech/distributech-backend/pkg/db/models"
	"github.com/distributech/distributech-backend/pkg/enums"
	"github.com/distributech/distributech-backend/pkg/logger"
	"github.com/distributech/distributech-backend/pkg/security"
)

var defaultDepartments = []string{
	"Administration",
	"Operations",
	"Production",
	"Maintenance",
	"Research",
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	adminUsername := flag.String("admin-username", "superadmin", "bootstrap SuperAdmin username")
	adminEmail := flag.String("admin-email", "", "bootstrap SuperAdmin email (skips user seeding when empty)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	err = dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		roles, err := seedRoles(ctx, tx, logg)
		if err != nil {
			return err
		}
		departments, err := seedDepartments(ctx, tx, logg)
		if err != nil {
			return err
		}
		if *adminEmail == "" {
			logg.Info(ctx, "no -admin-email given, skipping bootstrap user")
			return nil
		}
		return seedSuperAdmin(ctx, tx, logg, cfg.Password, roles, departments, *adminUsername, *adminEmail)
	})
	if err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "seeding complete")
}

func seedRoles(ctx context.Context, tx *gorm.DB, logg *logger.Logger) (map[enums.Role]models.Role, error) {
	out := make(map[enums.Role]models.Role, len(enums.Roles()))
	for _, name := range enums.Roles() {
		var row models.Role
		err := tx.WithContext(ctx).Where("name = ?", name).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.Role{ID: uuid.New(), Name: name}
			if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
				return nil, fmt.Errorf("create role %q: %w", name, err)
			}
			logg.Info(logg.WithField(ctx, "role", name.String()), "role created")
		} else if err != nil {
			return nil, fmt.Errorf("find role %q: %w", name, err)
		}
		out[name] = row
	}
	return out, nil
}

func seedDepartments(ctx context.Context, tx *gorm.DB, logg *logger.Logger) (map[string]models.Department, error) {
	out := make(map[string]models.Department, len(defaultDepartments))
	for _, name := range defaultDepartments {
		var row models.Department
		err := tx.WithContext(ctx).Where("name = ?", name).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.Department{ID: uuid.New(), Name: name}
			if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
				return nil, fmt.Errorf("create department %q: %w", name, err)
			}
			logg.Info(logg.WithField(ctx, "department", name), "department created")
		} else if err != nil {
			return nil, fmt.Errorf("find department %q: %w", name, err)
		}
		out[name] = row
	}
	return out, nil
}

// seedSuperAdmin creates the bootstrap account with a generated password
// printed once to stdout. Existing accounts are left untouched.
func seedSuperAdmin(
	ctx context.Context,
	tx *gorm.DB,
	logg *logger.Logger,
	passwordCfg config.PasswordConfig,
	roles map[enums.Role]models.Role,
	departments map[string]models.Department,
	username, email string,
) error {
	var existing models.User
	err := tx.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		logg.Info(logg.WithField(ctx, "username", username), "bootstrap user already exists")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("find bootstrap user: %w", err)
	}

	password, err := security.GenerateBootstrapPassword(24)
	if err != nil {
		return fmt.Errorf("generate bootstrap password: %w", err)
	}
	hash, err := security.HashPassword(password, passwordCfg)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		RoleID:       roles[enums.RoleSuperAdmin].ID,
		DepartmentID: departments["Administration"].ID,
		IsActive:     true,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("create bootstrap user: %w", err)
	}

	logg.Info(logg.WithField(ctx, "username", username), "bootstrap user created")
	fmt.Printf("bootstrap credentials: %s / %s\n", username, password)
	return nil
}
