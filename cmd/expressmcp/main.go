// Command expressmcp runs the express tracking and price comparison MCP server.
//
// Usage:
//
//	expressmcp --customer=<id> --auth_key=<key> [--config=express.yaml] [--transport=stdio|http]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/expressmcp/callbacks"
	"github.com/effective-security/expressmcp/config"
	"github.com/effective-security/expressmcp/server"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/expressmcp", "cmd")

type flags struct {
	configFile string
	customer   string
	authKey    string
	transport  string
	addr       string
	cache      string
	logLevel   string
	verbose    bool
	version    bool
}

func parseFlags(args []string) (*flags, error) {
	f := new(flags)
	fs := flag.NewFlagSet("expressmcp", flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "", "path to the YAML configuration file")
	fs.StringVar(&f.customer, "customer", "", "customer ID of the tracking API, or EXPRESS_CUSTOMER")
	fs.StringVar(&f.authKey, "auth_key", "", "authorization key of the tracking API, or EXPRESS_AUTH_KEY")
	fs.StringVar(&f.transport, "transport", "", "MCP transport: stdio|http")
	fs.StringVar(&f.addr, "addr", "", "listen address of the http transport")
	fs.StringVar(&f.cache, "cache", "", "tracking cache: none|memory|redis")
	fs.StringVar(&f.logLevel, "log_level", "", "log level: TRACE|DEBUG|INFO|NOTICE|WARNING|ERROR|CRITICAL")
	fs.BoolVar(&f.verbose, "verbose", false, "print the tool calls to stderr")
	fs.BoolVar(&f.version, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// loadConfig returns the configuration with the flags and the environment applied,
// the flags take precedence.
func loadConfig(f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}

	cfg.Customer = values.StringsCoalesce(f.customer, cfg.Customer, os.Getenv("EXPRESS_CUSTOMER"))
	cfg.AuthKey = values.StringsCoalesce(f.authKey, cfg.AuthKey, os.Getenv("EXPRESS_AUTH_KEY"))
	cfg.Server.Transport = values.StringsCoalesce(f.transport, cfg.Server.Transport)
	cfg.Server.Addr = values.StringsCoalesce(f.addr, cfg.Server.Addr)
	cfg.Cache.Kind = values.StringsCoalesce(f.cache, cfg.Cache.Kind)
	cfg.LogLevel = values.StringsCoalesce(f.logLevel, cfg.LogLevel)
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var logLevels = map[string]xlog.LogLevel{
	"TRACE":    xlog.TRACE,
	"DEBUG":    xlog.DEBUG,
	"INFO":     xlog.INFO,
	"NOTICE":   xlog.NOTICE,
	"WARNING":  xlog.WARNING,
	"ERROR":    xlog.ERROR,
	"CRITICAL": xlog.CRITICAL,
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if f.version {
		fmt.Println(server.Name, server.Version)
		return
	}

	// stdout is used by the stdio transport
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

func run(f *flags) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	if level, ok := logLevels[cfg.LogLevel]; ok {
		xlog.SetGlobalLogLevel(level)
	}

	tr, err := server.NewTransport(&cfg.Server)
	if err != nil {
		return err
	}

	var opts []server.Option
	if f.verbose {
		opts = append(opts, server.WithCallback(callbacks.NewPrinter(os.Stderr, callbacks.ModeVerbose)))
	}

	s, err := server.New(cfg, tr, opts...)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Ping(ctx); err != nil {
		return err
	}

	errs := make(chan error, 1)
	go func() {
		errs <- s.Serve()
	}()

	logger.KV(xlog.NOTICE,
		"status", "started",
		"name", server.Name,
		"version", server.Version,
		"transport", cfg.Server.Transport,
	)

	select {
	case err := <-errs:
		if err != nil {
			return err
		}
		// the stdio transport serves in the background
		<-ctx.Done()
	case <-ctx.Done():
	}

	logger.KV(xlog.NOTICE, "status", "stopped")
	return nil
}
