package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-inventory/internal/application/deduction"
	"github.com/tu-usuario/pos-inventory/internal/application/dto"
	"github.com/tu-usuario/pos-inventory/internal/domain"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
)

// DeductionHandler maneja las peticiones HTTP del motor de descuento (protegido).
type DeductionHandler struct {
	orchestrator *deduction.Orchestrator
}

// NewDeductionHandler construye el handler.
func NewDeductionHandler(orchestrator *deduction.Orchestrator) *DeductionHandler {
	return &DeductionHandler{orchestrator: orchestrator}
}

// ProcessSale godoc
// @Summary      Descontar inventario por una venta completada
// @Description  Expande combos, resuelve recetas y addons, valida stock y
//
//	descuenta con registro de auditoría. El actor sale del token.
//
// @Tags         deductions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProcessSaleRequest  true  "sale_id, store_id, lines"
// @Success      201   {object}  dto.ProcessSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ProcessSaleResponse
// @Router       /api/sales/deductions [post]
func (h *DeductionHandler) ProcessSale(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	if actorID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ProcessSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	storeID := in.StoreID
	if storeID == "" {
		storeID = GetStoreID(c)
	}
	if in.SaleID == "" || storeID == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sale_id, store_id y lines son requeridos"})
	}

	lines := make([]entity.SaleLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, entity.SaleLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			StoreID:     storeID,
		})
	}

	outcome, err := h.orchestrator.ProcessSale(c.Context(), deduction.SaleInput{
		SaleID:  in.SaleID,
		StoreID: storeID,
		ActorID: actorID,
		Lines:   lines,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthenticationMissing):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor requerido"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		// Fallas parciales o totales del pipeline: 409 con el outcome completo
		// para que el caller pueda conciliar lo que sí se descontó.
		return c.Status(fiber.StatusConflict).JSON(toProcessSaleResponse(outcome))
	}
	return c.Status(fiber.StatusCreated).JSON(toProcessSaleResponse(outcome))
}

func toProcessSaleResponse(outcome *deduction.DeductionOutcome) dto.ProcessSaleResponse {
	resp := dto.ProcessSaleResponse{
		SaleID:    outcome.SaleID,
		State:     string(outcome.State),
		Succeeded: outcome.Succeeded(),
		Deducted:  make([]dto.DeductionSummaryDTO, 0, len(outcome.Deducted)),
		Warnings:  outcome.Warnings,
	}
	for _, d := range outcome.Deducted {
		resp.Deducted = append(resp.Deducted, dto.DeductionSummaryDTO{
			InventoryItemID:  d.InventoryItemID,
			ItemName:         d.ItemName,
			QuantityDeducted: d.QuantityDeducted,
			PreviousTotal:    d.PreviousTotal,
			NewTotal:         d.NewTotal,
		})
	}
	for _, s := range outcome.Shortfalls {
		resp.Shortfalls = append(resp.Shortfalls, dto.ShortfallDTO{
			ItemName:  s.ItemName,
			Required:  s.Required,
			Available: s.Available,
		})
	}
	for _, e := range outcome.Errors {
		resp.Errors = append(resp.Errors, e.Error())
	}
	return resp
}
