package shop

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"naikai-shop/internal/shop/api/http"
	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/logger"
)

type params struct {
	shopParams *core.ShopParams
	configPath string
	cfg        *config.Config
}

// Execute starts the storefront and back-office HTTP service.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		if !errors.Is(err, core.ErrHelp) {
			mylog.Action("command_parse_failed").Error("Invalid command received", err)
		}
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validate params")

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.shopParams, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("shop_service_failed").Error("Server failed unexpectedly", err)
			_ = server.Stop(context.Background())
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return server.Stop(context.Background())
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("shop", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	port := fs.Int("port", 3000, "Port to run the shop service")
	stateTTL := fs.Duration("state-ttl", 24*time.Hour, "How long an idle client state is kept, 0 keeps it forever")
	backend := fs.String("backend", "", "Table store backend: postgres or memory (default from config)")

	if err := fs.Parse(args); err != nil {
		return nil, core.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}

	return &params{
		shopParams: &core.ShopParams{
			Port:     *port,
			StateTTL: *stateTTL,
			Backend:  *backend,
		},
		configPath: *configPath,
	}, nil
}

func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	params.cfg = cfg

	sp := params.shopParams
	if sp.Port <= 0 || sp.Port >= 65536 {
		return fmt.Errorf("port must be in [1: 65,535]: %d", sp.Port)
	}

	if sp.StateTTL < 0 {
		return fmt.Errorf("state ttl cannot be negative: %s", sp.StateTTL)
	}

	if sp.Backend == "" && cfg.Shop != nil {
		sp.Backend = cfg.Shop.Backend
	}
	switch sp.Backend {
	case "":
		sp.Backend = core.BackendPostgres
	case core.BackendPostgres, core.BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q, want %s or %s", sp.Backend, core.BackendPostgres, core.BackendMemory)
	}

	return nil
}
