package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-inventory/internal/application/dto"
	"github.com/tu-usuario/pos-inventory/internal/application/ledger"
	"github.com/tu-usuario/pos-inventory/internal/domain"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
)

// LedgerHandler expone las consultas de solo lectura del libro de auditoría (protegido).
type LedgerHandler struct {
	uc *ledger.QueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.QueryUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// ListBySale godoc
// @Summary      Registros de auditoría de una venta
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        sale_id  path  string  true  "ID de la venta"
// @Success      200  {array}   dto.DeductionRecordDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/sales/{sale_id} [get]
func (h *LedgerHandler) ListBySale(c *fiber.Ctx) error {
	records, err := h.uc.ListBySale(c.Context(), c.Params("sale_id"))
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(toRecordDTOs(records))
}

// ListByItem godoc
// @Summary      Historial de descuentos de un ítem de inventario
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        item_id  path   string  true   "ID del ítem de inventario"
// @Param        limit    query  int     false  "Máximo de filas (default 100)"
// @Param        offset   query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.DeductionRecordPageDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/items/{item_id} [get]
func (h *LedgerHandler) ListByItem(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	records, err := h.uc.ListByItem(c.Context(), c.Params("item_id"), page.Limit, page.Offset)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(toRecordPage(records, page))
}

// ListByStore godoc
// @Summary      Feed de descuentos de una tienda
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        store_id  query  string  true   "ID de la tienda"
// @Param        from      query  string  false  "Desde (RFC3339)"
// @Param        to        query  string  false  "Hasta (RFC3339)"
// @Param        limit     query  int     false  "Máximo de filas (default 100)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.DeductionRecordPageDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger [get]
func (h *LedgerHandler) ListByStore(c *fiber.Ctx) error {
	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		to = &t
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	records, err := h.uc.ListByStore(c.Context(), c.Query("store_id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return ledgerError(c, err)
	}
	return c.JSON(toRecordPage(records, page))
}

func ledgerError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toRecordPage(records []*entity.DeductionRecord, page dto.PageRequest) dto.DeductionRecordPageDTO {
	return dto.DeductionRecordPageDTO{
		Records: toRecordDTOs(records),
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
}

func toRecordDTOs(records []*entity.DeductionRecord) []dto.DeductionRecordDTO {
	out := make([]dto.DeductionRecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, dto.DeductionRecordDTO{
			ID:               r.ID,
			InventoryItemID:  r.InventoryItemID,
			StoreID:          r.StoreID,
			SaleID:           r.SaleID,
			ActorID:          r.ActorID,
			ItemName:         r.ItemName,
			QuantityDeducted: r.QuantityDeducted,
			PreviousTotal:    r.PreviousTotal,
			NewTotal:         r.NewTotal,
			CreatedAt:        r.CreatedAt,
		})
	}
	return out
}
