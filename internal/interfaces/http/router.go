package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-inventory/internal/application/deduction"
	"github.com/tu-usuario/pos-inventory/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Orchestrator *deduction.Orchestrator
	LedgerUC     *ledger.QueryUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Descuento de inventario por venta (protegido)
	deductionHandler := NewDeductionHandler(deps.Orchestrator)
	protected.Post("/sales/deductions", deductionHandler.ProcessSale)

	// Libro de auditoría (protegido, solo lectura)
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledgerGroup := protected.Group("/ledger")
	ledgerGroup.Get("/", ledgerHandler.ListByStore)
	ledgerGroup.Get("/sales/:sale_id", ledgerHandler.ListBySale)
	ledgerGroup.Get("/items/:item_id", ledgerHandler.ListByItem)
}
