// Package main 初始化数据库结构并创建首个管理员账号
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"kidz-story-api/internal/config"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 1. 建表
	if err := dataLayer.PgClient.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	fmt.Println("Database schema is up to date.")

	// 2. 管理员账号，邮箱需同时出现在 security.admin.emails 中才能访问管理后台
	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("BOOTSTRAP_ADMIN_EMAIL")))
	if adminEmail == "" && len(cfg.Security.Admin.Emails) > 0 {
		adminEmail = strings.ToLower(strings.TrimSpace(cfg.Security.Admin.Emails[0]))
	}
	if adminEmail == "" {
		fmt.Println("No admin email configured, skipping admin seed.")
		return
	}
	adminPassword := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if len(adminPassword) < entity.MinPasswordLength {
		log.Fatalf("BOOTSTRAP_ADMIN_PASSWORD must be at least %d characters", entity.MinPasswordLength)
	}

	exists, err := dataLayer.UserRepo.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("failed to check admin existence: %v", err)
	}
	if exists {
		fmt.Printf("Admin user %s already exists.\n", adminEmail)
		return
	}
	if !cfg.Security.Admin.IsAdmin(adminEmail) {
		fmt.Printf("Warning: %s is not listed in security.admin.emails.\n", adminEmail)
	}

	fmt.Printf("Creating admin user: %s...\n", adminEmail)
	admin := entity.NewUser(adminEmail, "System Admin", entity.ProviderCredentials)
	if err := admin.SetPassword(adminPassword); err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}
	if err := dataLayer.UserRepo.Create(ctx, admin); err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	fmt.Println("Bootstrap completed successfully.")
}
