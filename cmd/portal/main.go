// Command portal is the command-line client for the lab portal backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"labportal/internal/common/config"
	"labportal/internal/common/errors"
	"labportal/internal/common/logger"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(argv []string) int {
	global := flag.NewFlagSet("portal", flag.ContinueOnError)
	configPath := global.String("config", "", "Path to a config file (default: configs/config.yaml)")
	metricsAddr := global.String("metrics-addr", "", "Serve /health and /metrics on this address")
	global.Usage = help
	if err := global.Parse(argv); err != nil {
		return 2
	}
	args := global.Args()
	if len(args) == 0 || args[0] == "help" {
		help()
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: config load failed: %v\n", err)
		return 1
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	addr := *metricsAddr
	if addr == "" && cfg.Metrics.Enabled {
		addr = cfg.Metrics.Address
	}
	if addr != "" {
		defer a.startMetricsServer(addr)()
	}

	if err := a.run(ctx, args); err != nil {
		report(err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// report prints err for a person rather than a log parser.
func report(err error) {
	if err == flag.ErrHelp {
		return
	}
	se, ok := errors.As(err)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", se.Message)
	if se.Details != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", se.Details)
	}
	if se.Retryable {
		fmt.Fprintln(os.Stderr, "  The request can be retried.")
	}
}

func help() {
	fmt.Fprint(os.Stderr, `Usage: portal [-config FILE] [-metrics-addr ADDR] <command> [flags]

Commands:
  login         -email -password          Sign in and store the session
  logout                                  Clear the stored session
  register      -email -password -confirm -name [-phone]
  forms list    [-refresh]                List active application forms
  forms show    -id                       Show one form with its questions
  forms create  -file FILE [-dry-run]     Create a form from a YAML/JSON definition
  apply         -form -answers FILE [-name -email -phone]
  applications  [-form]                   List submitted applications (admin)
  dashboard     [-watch DURATION]         Show admin dashboard figures
  post          -title -content [-image FILE ...]
  posts list                              List bulletin board posts
  posts delete  -id                       Delete a post
`)
}
