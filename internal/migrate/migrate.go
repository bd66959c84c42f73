// Package migrate provisions the backend tables and optionally seeds the
// catalog with the built-in sample menu.
package migrate

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/sample"
	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/logger"
	"naikai-shop/internal/xpkg/tablestore"

	database "naikai-shop/internal/shop/adapter/db"
)

const timeout = 30 * time.Second

type params struct {
	configPath string
	seed       bool
	cfg        *config.Config
}

func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	params, err := parseParams(args)
	if err != nil {
		if !errors.Is(err, core.ErrHelp) {
			mylog.Action("command_parse_failed").Error("Invalid command received", err)
		}
		return err
	}
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		mylog.Action("config_load_failed").Error("Failed to load config", err)
		return err
	}
	params.cfg = cfg

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	store, err := tablestore.Start(ctx, cfg.DB, mylog)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return fmt.Errorf("%w: %v", core.ErrDBConn, err)
	}
	defer store.Close()

	if err := store.Provision(ctx); err != nil {
		mylog.Action("provision_failed").Error("Failed to provision tables", err)
		return err
	}

	if !params.seed {
		return nil
	}
	return Seed(ctx, store, mylog)
}

// Seed fills empty products and promotions tables with the sample menu.
// Tables that already hold rows are left alone.
func Seed(ctx context.Context, store tablestore.TableStore, mylog logger.Logger) error {
	mylog = mylog.Action("seed")

	products := database.NewProductRepo(store)
	n, err := products.Count(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n == 0 {
		for _, p := range sample.Products() {
			if _, err := products.Create(ctx, p); err != nil {
				return fmt.Errorf("seed product %q: %w", p.Name, err)
			}
		}
		mylog.Info("Seeded products", "count", len(sample.Products()))
	} else {
		mylog.Info("Products already present, skipping", "count", n)
	}

	promotions := database.NewPromotionRepo(store)
	existing, err := promotions.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("list promotions: %w", err)
	}
	if len(existing) > 0 {
		mylog.Info("Promotions already present, skipping", "count", len(existing))
		return nil
	}
	for _, p := range sample.Promotions() {
		if _, err := promotions.Create(ctx, p); err != nil {
			return fmt.Errorf("seed promotion %q: %w", p.Title, err)
		}
	}
	mylog.Info("Seeded promotions", "count", len(sample.Promotions()))
	return nil
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")
	seed := fs.Bool("seed", false, "Insert the sample menu into empty tables")

	if err := fs.Parse(args); err != nil {
		return nil, core.ErrParseCmd
	}
	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}
	return &params{configPath: *configPath, seed: *seed}, nil
}
