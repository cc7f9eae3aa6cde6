package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/horas-api/internal/application/catalog"
	"github.com/jhoicas/horas-api/internal/application/timesheet"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Timesheets  *timesheet.UseCase
	HourClients *catalog.HourClientUseCase
	Auth        Authenticator
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Auth))

	// Timesheets
	timesheets := protected.Group("/timesheets")
	tsHandler := NewTimesheetHandler(deps.Timesheets, deps.Logger)
	canRead := RequireCapability(access.CapRead, access.CapViewAll)
	timesheets.Get("/", canRead, tsHandler.List)
	timesheets.Get("/mine", RequireCapability(access.CapSubmit, access.CapRead), tsHandler.Mine)
	timesheets.Get("/summary", canRead, tsHandler.Summary)
	timesheets.Get("/summary/pdf", canRead, tsHandler.SummaryPDF)
	timesheets.Post("/", RequireCapability(access.CapSubmit), tsHandler.Create)
	canEdit := RequireCapability(access.CapSubmit, access.CapManage)
	timesheets.Patch("/:id", canEdit, tsHandler.Update)
	timesheets.Delete("/:id", canEdit, tsHandler.Delete)

	// Catálogo de clientes: lectura para cualquier autenticado, alta y baja con hours.clients
	clients := protected.Group("/hours/clients")
	clientHandler := NewHourClientHandler(deps.HourClients, deps.Logger)
	clients.Get("/", clientHandler.List)
	clients.Post("/", RequireCapability(access.CapHourClients), clientHandler.Add)
	clients.Delete("/:name", RequireCapability(access.CapHourClients), clientHandler.Remove)
}
