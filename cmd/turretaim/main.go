// Program turretaim solves turret aim rotations from scenario files or
// serves them over a websocket.
//
//	turretaim [-config file] solve [-workers n] scenario.yaml
//	turretaim [-config file] serve [-addr host:port] [-design]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"go.uber.org/zap"

	"zappem.net/pub/kinematics/turret/internal/aimserver"
	"zappem.net/pub/kinematics/turret/internal/batch"
	"zappem.net/pub/kinematics/turret/internal/config"
	"zappem.net/pub/kinematics/turret/internal/log"
	"zappem.net/pub/kinematics/turret/internal/scenario"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "turretaim:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: turretaim [-config file] solve [-workers n] scenario.yaml")
	fmt.Fprintln(w, "       turretaim [-config file] serve [-addr host:port] [-design]")
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("turretaim", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "YAML configuration file")
	fs.Usage = func() { usage(fs.Output()) }
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.LoadFile(*cfgPath); err != nil {
			return err
		}
	}

	if fs.NArg() == 0 {
		usage(fs.Output())
		return fmt.Errorf("missing command")
	}
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "solve":
		return solve(ctx, cfg, rest, stdout)
	case "serve":
		return serve(ctx, cfg, rest)
	default:
		usage(fs.Output())
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func solve(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	workers := fs.Int("workers", cfg.Batch.Workers, "concurrent solvers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("solve needs one scenario file (or - for stdin)")
	}
	cfg.Batch.Workers = *workers
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := log.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := scenario.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	logger.Debug("loaded scenario", zap.String("path", fs.Arg(0)), zap.Int("shots", len(f.Shots)))

	results, err := batch.Solve(ctx, f.Shots, cfg.Batch.Workers)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tYAW\tPITCH\tROLL\tMISS")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.6f\t%.3g\n", r.ID, r.Rotation.Yaw, r.Rotation.Pitch, r.Rotation.Roll, r.Miss)
		if r.Miss > 1e-6 {
			logger.Info("target out of reach", zap.String("id", r.ID), zap.Float64("miss", r.Miss))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "digest %016x\n", batch.Digest(results))
	return err
}

func serve(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Server.Addr, "listen address")
	design := fs.Bool("design", cfg.Server.DesignTime, "send refresh notices after each solve")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Server.Addr = *addr
	cfg.Server.DesignTime = *design
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := log.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	return aimserver.New(cfg.Server, logger).ListenAndServe(ctx)
}
