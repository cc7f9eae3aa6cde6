package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/horas-api/internal/application/catalog"
	"github.com/jhoicas/horas-api/internal/application/dto"
	"github.com/jhoicas/horas-api/pkg/logger"
)

// HourClientHandler catálogo de clientes para la carga de horas.
type HourClientHandler struct {
	uc  *catalog.HourClientUseCase
	log *logger.Logger
}

// NewHourClientHandler construye el handler.
func NewHourClientHandler(uc *catalog.HourClientUseCase, log *logger.Logger) *HourClientHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &HourClientHandler{uc: uc, log: log.Component("hour_client_handler")}
}

// List godoc
// @Summary      Listar clientes de horas
// @Description  Clientes por defecto más los agregados, sin los dados de baja, en orden alfabético.
// @Tags         hours
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.HourClientListResponse
// @Router       /api/hours/clients [get]
func (h *HourClientHandler) List(c *fiber.Ctx) error {
	items, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(dto.HourClientListResponse{Items: items})
}

// Add godoc
// @Summary      Agregar cliente de horas
// @Tags         hours
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.HourClientRequest  true  "Cliente"
// @Success      201   {object}  dto.HourClientResponse
// @Success      200   {object}  dto.HourClientResponse  "Cliente reactivado"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/hours/clients [post]
func (h *HourClientHandler) Add(c *fiber.Ctx) error {
	actor, ok := GetPrincipal(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
	}
	var in dto.HourClientRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	created, err := h.uc.Add(c.UserContext(), actor, in.Name)
	if err != nil {
		return respondError(c, h.log, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(dto.HourClientResponse{Name: strings.TrimSpace(in.Name)})
}

// Remove godoc
// @Summary      Dar de baja cliente de horas
// @Tags         hours
// @Security     Bearer
// @Param        name  path  string  true  "Nombre del cliente (URL-encoded)"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/hours/clients/{name} [delete]
func (h *HourClientHandler) Remove(c *fiber.Ctx) error {
	actor, ok := GetPrincipal(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
	}
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_NAME", Message: "nombre mal codificado"})
	}
	if err := h.uc.Remove(c.UserContext(), actor, name); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
