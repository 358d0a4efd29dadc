// File: cmd/seed/main.go
//
// Seeds a fresh database with a demo branch, a starter catalog and an admin
// account, then prints a signed admin token. Admin tokens are minted
// out-of-band; the HTTP API only mints device tokens through activation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"fieldsales-backend/internal/config"
	"fieldsales-backend/internal/domain/model"
	pg "fieldsales-backend/internal/infra/db/postgres"
	"fieldsales-backend/internal/infra/identity"
	"fieldsales-backend/internal/infra/logging"
	"fieldsales-backend/internal/infra/web"
	"fieldsales-backend/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	adminEmail := flag.String("admin-email", "admin@fieldsales.local", "seeded admin account email")
	adminPassword := flag.String("admin-password", "", "seeded admin account password (required)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *adminPassword == "" {
		log.Fatalf("-admin-password is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	logger := logging.New(cfg.Log, true)

	profileRepo := pg.NewProfileRepo(pool)
	branchRepo := pg.NewBranchRepo(pool)
	productRepo := pg.NewProductRepo(pool)
	logRepo := pg.NewInventoryLogRepo(pool)
	tm := pg.NewTxManager(pool)

	idgen := usecase.NewIdentifierGenerator(cfg.Identifier)
	activationUC := usecase.NewActivationUseCase(pg.NewActivationCodeRepo(pool), tm, cfg.Activation, logger)
	branchUC := usecase.NewBranchUseCase(branchRepo, profileRepo, idgen, logger)
	inventoryUC := usecase.NewInventoryUseCase(productRepo, logRepo, tm, logger)
	productUC := usecase.NewProductUseCase(productRepo, inventoryUC, tm, logger)
	provisionUC := usecase.NewProvisionUseCase(profileRepo, branchRepo, identity.NewNoopProvider(), idgen, activationUC, logger)

	// If branches already exist, assume the database is seeded.
	existing, err := branchUC.ListSummaries(ctx)
	if err != nil {
		log.Fatalf("list branches: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d branches already present. No changes.\n", len(existing))
		return
	}

	loc := "Jl. Merdeka 1, Jakarta"
	branch, err := branchUC.Create(ctx, "Jakarta Pusat", &loc)
	if err != nil {
		log.Fatalf("create branch: %v", err)
	}
	fmt.Printf("seeded branch: %s (%s)\n", branch.Name, branch.Code)

	catalog := []struct {
		Name  string
		Price float64
		Stock int
	}{
		{"Kopi Bubuk 250g", 12.50, 120},
		{"Teh Celup 25s", 8.00, 200},
		{"Gula Pasir 1kg", 6.75, 150},
	}
	for _, c := range catalog {
		p, err := productUC.Create(ctx, usecase.ProductCreate{
			Name:         c.Name,
			UnitPrice:    c.Price,
			InitialStock: c.Stock,
		}, "")
		if err != nil {
			log.Fatalf("create product %q: %v", c.Name, err)
		}
		fmt.Printf("seeded product: %s (id=%s, stock=%d)\n", p.Name, p.ID, c.Stock)
	}

	admin, err := provisionUC.CreateAdmin(ctx, *adminEmail, *adminPassword, "Seed Admin", nil)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}

	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	token, err := auth.Mint(admin.ID, model.RoleAdmin)
	if err != nil {
		log.Fatalf("mint admin token: %v", err)
	}
	fmt.Printf("seeded admin: %s (id=%s)\n", admin.Email, admin.ID)
	fmt.Printf("admin token (valid %s):\n%s\n", cfg.Auth.TokenTTL, token)
}
