package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"naikai-shop/internal/migrate"
	"naikai-shop/internal/notifier"
	"naikai-shop/internal/shop"
	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/xpkg/config"
	"naikai-shop/internal/xpkg/logger"
)

var (
	errModeFlag       = errors.New("--mode is required")
	errUnknownService = errors.New("unknown service mode")
)

type executeFunc func(ctx context.Context, mylog logger.Logger, args []string) error

func main() {
	level := config.LoadDotEnv().Shop.LogLevel

	fs := flag.NewFlagSet("main", flag.ExitOnError)
	mode := fs.String("mode", "", "service to run: shop | notification-subscriber | migrate")

	// Only --mode is parsed here, the rest goes to the service.
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			if (arg == "--mode" || arg == "-mode") && i+1 < len(args) {
				modeArgs = args[:i+2]
			}
			break
		}
	}
	if err := fs.Parse(modeArgs); err != nil {
		help(fs)
		os.Exit(2)
	}
	remainingArgs := args[len(modeArgs):]

	var (
		service string
		execute executeFunc
	)
	switch *mode {
	case "shop", "s":
		service, execute = "shop", shop.Execute
	case "notification-subscriber", "ns":
		service, execute = "notification-subscriber", notifier.Execute
	case "migrate", "m":
		service, execute = "migrate", migrate.Execute
	case "":
		logger.New("naikai-shop", level).Action("startup_failed").Error("Failed to start", errModeFlag)
		help(fs)
		os.Exit(2)
	default:
		logger.New("naikai-shop", level).Action("startup_failed").Error("Failed to start", errUnknownService, "mode", *mode)
		help(fs)
		os.Exit(2)
	}

	mylog := logger.New(service, level)
	mylog.Action("service_started").Info("Successfully started")

	if err := execute(context.Background(), mylog, remainingArgs); err != nil {
		if errors.Is(err, core.ErrHelp) || errors.Is(err, notifier.ErrHelp) {
			return
		}
		mylog.Action("service_failed").Error("Service stopped with error", err)
		log.Fatalf("failed to execute %s: %s", service, err)
	}
	mylog.Action("service_completed").Info("Successfully completed")
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExamples:")
	fmt.Println("  ./naikai-shop --mode=shop --port=3000 --state-ttl=24h")
	fmt.Println("  ./naikai-shop --mode=shop --backend=memory")
	fmt.Println("  ./naikai-shop --mode=notification-subscriber")
	fmt.Println("  ./naikai-shop --mode=migrate --seed")
}
