package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/horas-api/internal/application/audit"
	"github.com/jhoicas/horas-api/internal/application/auth"
	"github.com/jhoicas/horas-api/internal/application/catalog"
	"github.com/jhoicas/horas-api/internal/application/timesheet"
	"github.com/jhoicas/horas-api/internal/domain/access"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/repository"
	"github.com/jhoicas/horas-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/horas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/horas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/horas-api/internal/interfaces/http"
	"github.com/jhoicas/horas-api/pkg/config"
	"github.com/jhoicas/horas-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// stores puertos de persistencia según el driver configurado.
type stores struct {
	timesheets repository.TimesheetRepository
	users      repository.UserRepository
	roles      repository.RoleRepository
	movements  repository.MovementRepository
	clients    repository.HourClientRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	emitter := audit.NewEmitter(st.movements, log, cfg.Timesheets.AuditTimeout)
	resolver := auth.NewPrincipalResolver(st.users, st.roles, auth.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
	}).WithStoreTimeout(cfg.DB.Timeout)
	timesheetUC := timesheet.NewUseCase(st.timesheets, st.users, emitter, timesheet.Config{
		Policy: access.NewEditPolicy(cfg.Timesheets.EditWindow),
		Limits: timesheet.Limits{
			ListDefault:    cfg.Timesheets.ListLimit,
			ListMax:        cfg.Timesheets.ListMax,
			Mine:           cfg.Timesheets.MineLimit,
			SummaryDefault: cfg.Timesheets.SummaryLimit,
			SummaryMax:     cfg.Timesheets.SummaryMax,
		},
		StoreTimeout: cfg.DB.Timeout,
		Reports:      infrapdf.NewSummaryPDFGenerator(cfg.App.Name),
		Logger:       log,
	})
	hourClientUC := catalog.NewHourClientUseCase(st.clients, emitter).WithStoreTimeout(cfg.DB.Timeout)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Horas API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.StoreDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Timesheets:  timesheetUC,
		HourClients: hourClientUC,
		Auth:        resolver,
		Logger:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	emitter.Close()

	log.Info().Msg("aplicación detenida")
}

// openStores abre PostgreSQL (aplicando migraciones pendientes) o el store en memoria.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		mem := memory.New()
		for _, r := range auth.DefaultRoles() {
			if err := mem.Roles().Upsert(ctx, r); err != nil {
				return nil, err
			}
		}
		mem.PutUser(&entity.User{ID: "admin", Username: "admin", DisplayName: "Administrador", Roles: []string{entity.RoleAdmin}})
		return &stores{
			timesheets: mem.Timesheets(),
			users:      mem.Users(),
			roles:      mem.Roles(),
			movements:  mem.MovementLog(),
			clients:    mem.HourClients(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	from, to, err := postgres.Migrate(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if from != to {
		log.Info().Int("from", from).Int("to", to).Msg("migraciones aplicadas")
	}
	return &stores{
		timesheets: postgres.NewTimesheetRepository(pool),
		users:      postgres.NewUserRepository(pool),
		roles:      postgres.NewRoleRepository(pool),
		movements:  postgres.NewMovementRepository(pool),
		clients:    postgres.NewHourClientRepository(pool),
		close:      pool.Close,
	}, nil
}
