package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/horas-api/internal/application/auth"
	"github.com/jhoicas/horas-api/internal/application/timesheet"
	"github.com/jhoicas/horas-api/internal/domain/entity"
	"github.com/jhoicas/horas-api/internal/domain/worktime"
	"github.com/jhoicas/horas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/horas-api/pkg/config"
	"github.com/jhoicas/horas-api/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "horasctl",
		Short:         "Operación del servicio de horas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCalcCmd(), newMigrateCmd(), newSeedRolesCmd(), newUserCmd(), newTokenCmd())
	return root
}

// newCalcCmd valoriza un turno sin tocar la base: duración, minutos nocturnos y normales.
func newCalcCmd() *cobra.Command {
	var start, end string
	var holiday bool
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calcular duración y minutos nocturnos de un turno",
		RunE: func(cmd *cobra.Command, args []string) error {
			sch, err := worktime.Compute(start, end)
			if err != nil {
				return err
			}
			normal := max(sch.DurationMinutes-sch.NightMinutes, 0)
			holidayMinutes := 0
			if holiday {
				holidayMinutes, normal = sch.DurationMinutes, 0
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %s-%s\n", "Turno", worktime.FormatClock(sch.StartMinutes), worktime.FormatClock(sch.EndMinutes))
			for _, r := range []struct {
				label   string
				minutes int
			}{
				{"Duración", sch.DurationMinutes},
				{"Nocturnas", sch.NightMinutes},
				{"Normales", normal},
				{"Feriado", holidayMinutes},
			} {
				fmt.Fprintf(out, "%-10s %-12s %s h\n", r.label, worktime.FormatMinutes(r.minutes), timesheet.Hours(r.minutes).StringFixed(2))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "hora de inicio HH:MM")
	cmd.Flags().StringVar(&end, "end", "", "hora de fin HH:MM")
	cmd.Flags().BoolVar(&holiday, "holiday", false, "el turno es feriado")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplicar migraciones pendientes de PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
				from, to, err := postgres.Migrate(ctx, pool)
				if err != nil {
					return err
				}
				if from == to {
					fmt.Fprintf(cmd.OutOrStdout(), "esquema al día (versión %d)\n", to)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "esquema migrado de la versión %d a la %d\n", from, to)
				return nil
			})
		},
	}
}

func newSeedRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-roles",
		Short: "Crear o actualizar los roles base (admin, operario, gestor-horas)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
				roles := auth.DefaultRoles()
				err := postgres.NewTxRunner(pool).Run(ctx, func(q postgres.Querier) error {
					repo := postgres.NewRoleRepository(q)
					for _, r := range roles {
						if err := repo.Upsert(ctx, r); err != nil {
							return fmt.Errorf("rol %s: %w", r.Name, err)
						}
					}
					return nil
				})
				if err != nil {
					return err
				}
				for _, r := range roles {
					fmt.Fprintf(cmd.OutOrStdout(), "rol %s listo\n", r.Name)
				}
				return nil
			})
		},
	}
}

func newUserCmd() *cobra.Command {
	var id, username, displayName, roles string
	add := &cobra.Command{
		Use:   "add",
		Short: "Crear o actualizar un usuario",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &entity.User{
				ID:          strings.TrimSpace(id),
				Username:    strings.TrimSpace(username),
				DisplayName: strings.TrimSpace(displayName),
				Roles:       splitRoles(roles),
			}
			if u.ID == "" || u.Username == "" {
				return fmt.Errorf("--id y --username son requeridos")
			}
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, _ *config.Config) error {
				if err := postgres.NewUserRepository(pool).Upsert(ctx, u); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "usuario %s (%s) con roles [%s]\n", u.ID, u.Username, strings.Join(u.Roles, ", "))
				return nil
			})
		},
	}
	add.Flags().StringVar(&id, "id", "", "ID del usuario")
	add.Flags().StringVar(&username, "username", "", "nombre de usuario")
	add.Flags().StringVar(&displayName, "name", "", "nombre a mostrar")
	add.Flags().StringVar(&roles, "roles", "operario", "roles separados por coma")

	cmd := &cobra.Command{Use: "user", Short: "Administrar usuarios"}
	cmd.AddCommand(add)
	return cmd
}

func newTokenCmd() *cobra.Command {
	var userID string
	var expMinutes int
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emitir un JWT de desarrollo para un usuario existente",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config) error {
				if cfg.JWT.Secret == "" {
					return fmt.Errorf("JWT_SECRET es requerido")
				}
				resolver := auth.NewPrincipalResolver(
					postgres.NewUserRepository(pool),
					postgres.NewRoleRepository(pool),
					auth.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer, ExpMinutes: expMinutes},
				)
				token, err := resolver.IssueToken(ctx, userID)
				if err != nil {
					return fmt.Errorf("usuario %s: %w", userID, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "ID del usuario")
	cmd.Flags().IntVar(&expMinutes, "exp", 60, "minutos de validez")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// withPool carga la configuración, abre el pool y ejecuta fn.
func withPool(ctx context.Context, fn func(ctx context.Context, pool *pgxpool.Pool, cfg *config.Config) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "horasctl"})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return err
	}
	defer pool.Close()
	return fn(ctx, pool, cfg)
}

func splitRoles(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
