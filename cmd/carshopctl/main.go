package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/dealer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/application/importer"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/config"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/domain/user"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/http/supplier"
	"github.com/Mkilord/java-intensive-y-lab-sub000/internal/infrastructure/persistence/postgres"
	"github.com/Mkilord/java-intensive-y-lab-sub000/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "carshopctl",
		Usage: "operational tooling for the dealership api",
		Commands: []*cli.Command{
			migrateCommand(),
			seedAdminCommand(),
			importCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	zlog, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, zlog, nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create or update the database schema",
		Action: func(c *cli.Context) error {
			cfg, zlog, err := setup()
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(cfg.DB)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			if err := postgres.Migrate(c.Context, pool); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			zlog.Info("schema up to date", logger.String("db", cfg.DB.DBName))
			return nil
		},
	}
}

func seedAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed-admin",
		Usage: "create the initial admin account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "password", Required: true},
			&cli.StringFlag{Name: "name", Value: "Admin"},
			&cli.StringFlag{Name: "surname", Value: "Admin"},
		},
		Action: func(c *cli.Context) error {
			cfg, zlog, err := setup()
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(cfg.DB)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(c.String("password")), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			u, err := user.NewUser(
				user.RoleAdmin,
				c.String("username"),
				string(hash),
				c.String("name"),
				c.String("surname"),
				"",
				"",
			)
			if err != nil {
				return err
			}

			if err := postgres.NewUserRepository(pool).Create(c.Context, u); err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			zlog.Info("admin created",
				logger.Int64("user_id", u.ID),
				logger.String("username", u.Username),
			)
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "pull the supplier inventory feed into the catalog",
		Action: func(c *cli.Context) error {
			cfg, zlog, err := setup()
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(cfg.DB)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			engine := dealer.NewService(
				postgres.NewCarRepository(pool),
				postgres.NewUserRepository(pool),
				postgres.NewOrderRepository(pool),
				zlog,
			)
			feed := supplier.NewClient(cfg.Supplier)

			report, err := importer.NewService(feed, engine, zlog).Run(c.Context)
			if err != nil {
				return err
			}

			fmt.Printf("fetched=%d created=%d skipped=%d failed=%d\n",
				report.Fetched, report.Created, report.Skipped, report.Failed)
			return nil
		},
	}
}
