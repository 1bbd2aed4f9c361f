package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/application/usecase"
	"github.com/jhoicas/joyeria-api/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP de unidades de stock (protegido).
// Cantidad y estado solo se tocan por los endpoints del ledger.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// unitKey arma la clave compuesta desde los parámetros de ruta.
func unitKey(c *fiber.Ctx) (entity.StockUnitKey, bool) {
	jewelleryID, ok := paramID(c, "jewelleryId")
	if !ok {
		return entity.StockUnitKey{}, false
	}
	unitID, ok := paramID(c, "unitId")
	if !ok {
		return entity.StockUnitKey{}, false
	}
	modelNo, err := url.PathUnescape(c.Params("modelNo"))
	if err != nil || modelNo == "" {
		return entity.StockUnitKey{}, false
	}
	return entity.StockUnitKey{JewelleryID: jewelleryID, ModelNo: modelNo, UnitID: unitID}, true
}

// Add godoc
// @Summary      Registrar unidad de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddStockUnitRequest  true  "Datos de la unidad"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Add(c *fiber.Ctx) error {
	var in dto.AddStockUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Add(c.UserContext(), in, GetUsername(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "unidad registrada"})
}

// List godoc
// @Summary      Listar unidades de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        available  query  bool  false  "Solo unidades disponibles"
// @Success      200  {array}  dto.StockUnitResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	var (
		out []dto.StockUnitResponse
		err error
	)
	if c.QueryBool("available") {
		out, err = h.uc.ListAvailable()
	} else {
		out, err = h.uc.ListAll()
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByJewellery godoc
// @Summary      Listar unidades de una joya
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        jewelleryId  path  int  true  "ID de la joya"
// @Success      200  {array}  dto.StockUnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/jewellery/{jewelleryId} [get]
func (h *StockHandler) ListByJewellery(c *fiber.Ctx) error {
	jewelleryID, ok := paramID(c, "jewelleryId")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "jewelleryId es requerido"})
	}
	out, err := h.uc.ListByJewellery(jewelleryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener unidad por clave compuesta
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        jewelleryId  path  int     true  "ID de la joya"
// @Param        modelNo      path  string  true  "Número de modelo"
// @Param        unitId       path  int     true  "ID de la unidad"
// @Success      200  {object}  dto.StockUnitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{jewelleryId}/{modelNo}/{unitId} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	key, ok := unitKey(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "clave de unidad inválida"})
	}
	out, err := h.uc.GetByKey(key)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "unidad no encontrada"})
	}
	return c.JSON(out)
}

// UpdateAttributes godoc
// @Summary      Actualizar atributos de una unidad (peso, talla, precio)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        jewelleryId  path  int     true  "ID de la joya"
// @Param        modelNo      path  string  true  "Número de modelo"
// @Param        unitId       path  int     true  "ID de la unidad"
// @Param        body  body  dto.UpdateStockUnitRequest  true  "Atributos"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{jewelleryId}/{modelNo}/{unitId} [put]
func (h *StockHandler) UpdateAttributes(c *fiber.Ctx) error {
	key, ok := unitKey(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "clave de unidad inválida"})
	}
	var in dto.UpdateStockUnitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.UpdateAttributes(key, in); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "unidad actualizada"})
}

// SetQuantity godoc
// @Summary      Ajuste administrativo absoluto de cantidad
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        jewelleryId  path  int     true  "ID de la joya"
// @Param        modelNo      path  string  true  "Número de modelo"
// @Param        unitId       path  int     true  "ID de la unidad"
// @Param        body  body  dto.SetQuantityRequest  true  "Cantidad absoluta"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{jewelleryId}/{modelNo}/{unitId}/quantity [put]
func (h *StockHandler) SetQuantity(c *fiber.Ctx) error {
	key, ok := unitKey(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "clave de unidad inválida"})
	}
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetQuantity(c.UserContext(), key, in.Quantity, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Forzado manual de estado de una unidad
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        jewelleryId  path  int     true  "ID de la joya"
// @Param        modelNo      path  string  true  "Número de modelo"
// @Param        unitId       path  int     true  "ID de la unidad"
// @Param        body  body  dto.SetStatusRequest  true  "Estado destino"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{jewelleryId}/{modelNo}/{unitId}/status [put]
func (h *StockHandler) SetStatus(c *fiber.Ctx) error {
	key, ok := unitKey(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "clave de unidad inválida"})
	}
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetStatus(c.UserContext(), key, in.Status, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Retirar unidad de stock (revierte su aporte al agregado)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        jewelleryId  path  int     true  "ID de la joya"
// @Param        modelNo      path  string  true  "Número de modelo"
// @Param        unitId       path  int     true  "ID de la unidad"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{jewelleryId}/{modelNo}/{unitId} [delete]
func (h *StockHandler) Remove(c *fiber.Ctx) error {
	key, ok := unitKey(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "clave de unidad inválida"})
	}
	if err := h.uc.Remove(c.UserContext(), key, GetUsername(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "unidad retirada"})
}

// History godoc
// @Summary      Historial de movimientos de una unidad
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        jewelleryId  path   int     true   "ID de la joya"
// @Param        modelNo      path   string  true   "Número de modelo"
// @Param        unitId       path   int     true   "ID de la unidad"
// @Param        limit        query  int     false  "Máximo de movimientos"  default(50)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/stock/{jewelleryId}/{modelNo}/{unitId}/movements [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	key, ok := unitKey(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "clave de unidad inválida"})
	}
	limit := c.QueryInt("limit", 50)
	out, err := h.uc.History(key, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
