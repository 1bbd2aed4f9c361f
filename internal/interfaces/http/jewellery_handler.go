package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/joyeria-api/internal/application/dto"
	"github.com/jhoicas/joyeria-api/internal/application/usecase"
)

// JewelleryHandler maneja las peticiones HTTP del catálogo de joyas (protegido).
type JewelleryHandler struct {
	uc *usecase.JewelleryUseCase
}

// NewJewelleryHandler construye el handler.
func NewJewelleryHandler(uc *usecase.JewelleryUseCase) *JewelleryHandler {
	return &JewelleryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear joya
// @Tags         jewellery
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateJewelleryRequest  true  "Datos de la joya"
// @Success      201   {object}  dto.JewelleryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/jewellery [post]
func (h *JewelleryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateJewelleryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type es requerido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener joya por ID
// @Tags         jewellery
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la joya"
// @Success      200  {object}  dto.JewelleryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jewellery/{id} [get]
func (h *JewelleryHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar catálogo de joyas
// @Tags         jewellery
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.JewelleryResponse
// @Router       /api/jewellery [get]
func (h *JewelleryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// NextID godoc
// @Summary      Siguiente ID de joya disponible
// @Tags         jewellery
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NextIDResponse
// @Router       /api/jewellery/next-id [get]
func (h *JewelleryHandler) NextID(c *fiber.Ctx) error {
	next, err := h.uc.NextID()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NextIDResponse{NextID: next})
}

// Update godoc
// @Summary      Actualizar joya (no modifica la cantidad agregada)
// @Tags         jewellery
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la joya"
// @Param        body  body  dto.UpdateJewelleryRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.JewelleryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/jewellery/{id} [put]
func (h *JewelleryHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateJewelleryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar joya (falla si tiene unidades o pedidos)
// @Tags         jewellery
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la joya"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jewellery/{id} [delete]
func (h *JewelleryHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "joya eliminada"})
}
