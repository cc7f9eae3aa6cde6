package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/horas-api/internal/application/dto"
	"github.com/jhoicas/horas-api/internal/application/timesheet"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/pkg/logger"
)

// TimesheetHandler maneja las peticiones HTTP de registros de horas (protegido).
type TimesheetHandler struct {
	uc  *timesheet.UseCase
	log *logger.Logger
}

// NewTimesheetHandler construye el handler.
func NewTimesheetHandler(uc *timesheet.UseCase, log *logger.Logger) *TimesheetHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &TimesheetHandler{uc: uc, log: log.Component("timesheet_handler")}
}

// Create godoc
// @Summary      Cargar horas
// @Description  Calcula duración, minutos nocturnos y de feriado. Solo un gestor puede cargar a nombre de otro usuario.
// @Tags         timesheets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TimesheetInput  true  "Registro de horas"
// @Success      201   {object}  dto.TimesheetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/timesheets [post]
func (h *TimesheetHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetPrincipal(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
	}
	var in dto.TimesheetInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar registro de horas
// @Description  Recalcula minutos a partir de los horarios resultantes. Sin timesheets.manage solo se editan registros propios dentro de la ventana de edición.
// @Tags         timesheets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del registro"
// @Param        body  body  dto.TimesheetInput  true  "Campos a modificar"
// @Success      200   {object}  dto.TimesheetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/timesheets/{id} [patch]
func (h *TimesheetHandler) Update(c *fiber.Ctx) error {
	actor, ok := GetPrincipal(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.TimesheetInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.UserContext(), actor, id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar registro de horas
// @Tags         timesheets
// @Security     Bearer
// @Param        id   path  string  true  "ID del registro"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/timesheets/{id} [delete]
func (h *TimesheetHandler) Delete(c *fiber.Ctx) error {
	actor, ok := GetPrincipal(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar registros de horas
// @Tags         timesheets
// @Security     Bearer
// @Produce      json
// @Param        user_id     query  string  false  "Usuario"
// @Param        date        query  string  false  "Fecha exacta YYYY-MM-DD (prioridad sobre from/to)"
// @Param        from        query  string  false  "Desde YYYY-MM-DD"
// @Param        to          query  string  false  "Hasta YYYY-MM-DD"
// @Param        limit       query  int     false  "Límite"  default(500)
// @Param        order       query  string  false  "asc o desc"  default(desc)
// @Param        client      query  string  false  "Filtra por cliente (contiene)"
// @Param        task        query  string  false  "Filtra por tarea (contiene)"
// @Param        work_order  query  string  false  "Filtra por orden de trabajo (contiene)"
// @Param        user        query  string  false  "Filtra por nombre o username"
// @Param        q           query  string  false  "Búsqueda libre"
// @Param        is_holiday  query  bool    false  "Solo feriados o solo no feriados"
// @Param        night_only  query  bool    false  "Solo registros con minutos nocturnos"
// @Success      200  {object}  dto.TimesheetListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/timesheets [get]
func (h *TimesheetHandler) List(c *fiber.Ctx) error {
	actor, req, ok := h.query(c)
	if !ok {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Mine godoc
// @Summary      Mis registros de horas
// @Description  Igual que el listado pero siempre acotado al usuario autenticado y en orden ascendente por defecto.
// @Tags         timesheets
// @Security     Bearer
// @Produce      json
// @Param        date   query  string  false  "Fecha exacta YYYY-MM-DD"
// @Param        from   query  string  false  "Desde YYYY-MM-DD"
// @Param        to     query  string  false  "Hasta YYYY-MM-DD"
// @Param        limit  query  int     false  "Límite"  default(200)
// @Param        order  query  string  false  "asc o desc"  default(asc)
// @Success      200  {object}  dto.TimesheetListResponse
// @Router       /api/timesheets/mine [get]
func (h *TimesheetHandler) Mine(c *fiber.Ctx) error {
	actor, req, ok := h.query(c)
	if !ok {
		return nil
	}
	out, err := h.uc.ListMine(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de horas por usuario
// @Description  Totales normales, de feriado y nocturnos por usuario, más el total general y los registros filtrados.
// @Tags         timesheets
// @Security     Bearer
// @Produce      json
// @Param        user_id     query  string  false  "Usuario"
// @Param        date        query  string  false  "Fecha exacta YYYY-MM-DD"
// @Param        from        query  string  false  "Desde YYYY-MM-DD"
// @Param        to          query  string  false  "Hasta YYYY-MM-DD"
// @Param        limit       query  int     false  "Límite"  default(1000)
// @Param        night_only  query  bool    false  "Totales solo con horas nocturnas"
// @Success      200  {object}  dto.TimesheetSummaryResponse
// @Router       /api/timesheets/summary [get]
func (h *TimesheetHandler) Summary(c *fiber.Ctx) error {
	actor, req, ok := h.query(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Summary(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Resumen de horas en PDF
// @Tags         timesheets
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "Desde YYYY-MM-DD"
// @Param        to    query  string  false  "Hasta YYYY-MM-DD"
// @Success      200  {file}  binary
// @Router       /api/timesheets/summary/pdf [get]
func (h *TimesheetHandler) SummaryPDF(c *fiber.Ctx) error {
	actor, req, ok := h.query(c)
	if !ok {
		return nil
	}
	pdfBytes, err := h.uc.SummaryReport(c.UserContext(), actor, req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	name := "resumen-horas"
	if req.From != "" || req.To != "" {
		name = fmt.Sprintf("resumen-horas_%s_%s", req.From, req.To)
	}
	if req.Date != "" {
		name = "resumen-horas_" + req.Date
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.pdf"`, name))
	return c.Send(pdfBytes)
}

// query lee principal y parámetros de consulta. Con ok=false la respuesta de error ya fue escrita.
func (h *TimesheetHandler) query(c *fiber.Ctx) (actor access.Principal, req dto.TimesheetQueryRequest, ok bool) {
	actor, ok = GetPrincipal(c)
	if !ok {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no autenticado"})
		return actor, req, false
	}
	if err := c.QueryParser(&req); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
		return actor, req, false
	}
	return actor, req, true
}
