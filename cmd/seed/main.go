// seed carga empleados y repuestos de ejemplo en la base configurada (STORE_DRIVER=postgres)
// y emite un token JWT por empleado para probar la API.
//
// Uso: go run ./cmd/seed [ruta/catalogo.json]
// Sin argumento usa el catálogo de ejemplo incluido. La existencia inicial de cada repuesto
// se registra como movimiento INBOUND para que el libro de stock cuadre.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/inventory"
	"github.com/jhoicas/Taller-api/internal/application/ledger"
	"github.com/jhoicas/Taller-api/internal/application/sequence"
	"github.com/jhoicas/Taller-api/internal/application/usecase"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Taller-api/pkg/config"
	"github.com/jhoicas/Taller-api/pkg/jwt"
	"github.com/jhoicas/Taller-api/pkg/logger"
)

type catalog struct {
	Employees []dto.CreateEmployeeRequest `json:"employees"`
	Parts     []seedPart                  `json:"parts"`
}

type seedPart struct {
	dto.CreatePartRequest
	InitialStock int `json:"initial_stock"`
}

var demo = catalog{
	Employees: []dto.CreateEmployeeRequest{
		{Code: "E-001", FullName: "Administrador", Role: "admin", Password: "taller-admin"},
		{Code: "E-002", FullName: "Jefe de Taller", Role: "jefe_taller", Password: "taller-jefe"},
		{Code: "E-003", FullName: "Bodeguero", Role: "bodeguero", Password: "taller-bodega"},
	},
	Parts: []seedPart{
		{CreatePartRequest: dto.CreatePartRequest{PartNumber: "FLT-ACE-001", Name: "Filtro de aceite", MinimumStock: 10, ReorderLevel: 20, WarehouseID: "BOD-1", ZoneID: "A", BinID: "A-01"}, InitialStock: 50},
		{CreatePartRequest: dto.CreatePartRequest{PartNumber: "PST-FRN-002", Name: "Pastillas de freno", MinimumStock: 8, ReorderLevel: 16, WarehouseID: "BOD-1", ZoneID: "A", BinID: "A-02"}, InitialStock: 12},
		{CreatePartRequest: dto.CreatePartRequest{PartNumber: "BUJ-003", Name: "Bujía", MinimumStock: 20, ReorderLevel: 40, WarehouseID: "BOD-1", ZoneID: "B", BinID: "B-01"}, InitialStock: 35},
		{CreatePartRequest: dto.CreatePartRequest{PartNumber: "LIQ-REF-004", Name: "Líquido refrigerante", Unit: "GAL", MinimumStock: 5, ReorderLevel: 10, WarehouseID: "BOD-2"}, InitialStock: 3},
	},
}

func main() {
	data := demo
	if len(os.Args) > 1 {
		raw, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			fmt.Fprintf(os.Stderr, "Decodificar catálogo: %v\n", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool, log)
	codes := sequence.NewGenerator(sequence.Config{
		DefaultWidth: cfg.Sequence.Width,
		MaxAttempts:  cfg.Sequence.MaxAttempts,
		Location:     cfg.Sequence.Location(),
	})
	employees := usecase.NewEmployeeUseCase(repos.Employees())
	parts := usecase.NewPartUseCase(repos.Parts())
	movements := inventory.NewMovementUseCase(txRunner, repos, ledger.New(codes, log), log)
	actors := audit.SystemResolver{}

	var receiverID string
	for _, in := range data.Employees {
		emp, err := employees.Create(ctx, actors.Resolve(ctx), in)
		if errors.Is(err, domain.ErrConflict) {
			emp, err = employees.GetByCode(ctx, in.Code)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Empleado %s: %v\n", in.Code, err)
			os.Exit(1)
		}
		if receiverID == "" || emp.Role == "bodeguero" {
			receiverID = emp.ID
		}
		tok, err := jwt.Generate(cfg.JWT.Secret, emp.ID, emp.Role, cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Token %s: %v\n", in.Code, err)
			os.Exit(1)
		}
		fmt.Printf("%s\t%s\t%s\n", emp.Code, emp.Role, tok)
	}

	created := 0
	for _, in := range data.Parts {
		part, err := parts.Create(ctx, actors.Resolve(ctx), in.CreatePartRequest)
		if errors.Is(err, domain.ErrConflict) {
			log.Info().Str("part_number", in.PartNumber).Msg("repuesto ya existe, se omite")
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Repuesto %s: %v\n", in.PartNumber, err)
			os.Exit(1)
		}
		created++
		if in.InitialStock <= 0 || receiverID == "" {
			continue
		}
		if _, err := movements.RegisterMovement(ctx, actors.Resolve(ctx), inventory.MovementInput{
			PartID:     part.ID,
			Type:       entity.TransactionTypeInbound,
			Quantity:   in.InitialStock,
			EmployeeID: receiverID,
			Notes:      "Existencia inicial",
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Existencia inicial %s: %v\n", in.PartNumber, err)
			os.Exit(1)
		}
	}
	log.Info().Int("employees", len(data.Employees)).Int("parts", created).Msg("seed completado")
}
