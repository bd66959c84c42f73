package notifier

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/logger"
)

var ErrHelp = errors.New("help requested")

type params struct {
	configPath string
	cfg        *config.Config
}

// Execute runs the notification subscriber until a shutdown signal arrives.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		if !errors.Is(err, ErrHelp) {
			mylog.Action("command_parse_failed").Error("Invalid command received", err)
		}
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}

	n := NewNotifier(newCtx, context.Background(), params.cfg, mylog)
	runErr := n.Run()
	stopErr := n.Stop()
	if runErr != nil {
		mylog.Action("notifier_run_failed").Error("Notification subscriber stopped with error", runErr)
		return runErr
	}
	return stopErr
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("notification-subscriber", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	configPath := fs.String("config-path", "config.yaml", "path for config yaml")

	if err := fs.Parse(args); err != nil {
		return nil, errors.New("cannot parse arguments")
	}

	if *showHelp {
		fs.Usage()
		return nil, ErrHelp
	}

	return &params{configPath: *configPath}, nil
}

func validateParams(params *params) error {
	cfg, err := config.LoadConfig(params.configPath)
	if err != nil {
		return err
	}
	if cfg.RMQ == nil || cfg.RMQ.Host == "" {
		return errors.New("rabbitmq host is required")
	}
	params.cfg = cfg
	return nil
}
