// loco-sync downloads Loco translations into the web app before it is built.
//
// Run it from the build script ahead of the compile step:
//
//	loco-sync [-config loco.yaml] [-src-dir .] [-env-file .env] [-debug]
//
// A failed sync is logged and the command still exits 0 so the build goes on
// with whatever translation files are already on disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pricofy/loco-sync/internal/config"
	"github.com/pricofy/loco-sync/internal/handler"
	"github.com/pricofy/loco-sync/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

type options struct {
	configFile string
	envFile    string
	srcDir     string
	debug      bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("loco-sync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configFile, "config", config.DefaultFile, "YAML config file")
	fs.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading LOCO_* variables")
	fs.StringVar(&opts.srcDir, "src-dir", ".", "project source root; the default destination is <src-dir>/"+config.DefaultDir)
	fs.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "loco-sync %s\n", version)
		return 0
	}

	logger := logging.New(stderr, opts.debug)

	cfg, err := config.Load(config.Options{File: opts.configFile, EnvFile: opts.envFile})
	if err != nil {
		logger.Error("unable to load configuration", "error", err)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := handler.New(*cfg, handler.WithSrcDir(opts.srcDir), handler.WithLogger(logger))
	res := h.OnBuildBefore(ctx)
	logger.Debug("sync finished", "path", res.Destination, "written", len(res.Locales))
	return 0
}
