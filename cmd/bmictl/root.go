package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/moffa90/go-bmi/bmi"
	"github.com/moffa90/go-bmi/sim"
	"github.com/moffa90/go-bmi/trace"
)

// legacyVersion is the version word a --legacy target reports.
const legacyVersion = 0x20000188

// app is the state built once per invocation by the root command.
type app struct {
	cfg      config
	logger   *slog.Logger
	target   *sim.Target
	recorder *trace.Recorder
	session  *bmi.Session
}

// newRootCmd builds the command tree. Flag defaults come from cfg.
func newRootCmd(cfg config) *cobra.Command {
	a := &app{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "bmictl",
		Short: "bmictl drives a BMI bootstrap session against a simulated target.",
		Long: `bmictl drives a BMI bootstrap session against a simulated target. ` +
			`It exercises credit acquisition, readiness polling and target info ` +
			`negotiation, and can record every bus transaction into SQLite.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfg.Hardware, "hardware", cfg.Hardware, "readiness register: lookahead or intstatus")
	flags.BoolVar(&a.cfg.Legacy, "legacy", cfg.Legacy, "simulate a target that predates Get Target Info")
	flags.IntVar(&a.cfg.Budget, "budget", cfg.Budget, "polling budget in iterations")
	flags.BoolVar(&a.cfg.Conservative, "conservative", cfg.Conservative, "wait for a response credit before short reads")
	flags.BoolVar(&a.cfg.PendingEvents, "pending-events", cfg.PendingEvents, "let the transport report pending receive bytes")
	flags.StringVar(&a.cfg.Trace, "trace", cfg.Trace, "record bus transactions into this SQLite file")
	flags.StringVar(&a.cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flags.StringVar(&a.cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	rootCmd.AddCommand(
		newTargetInfoCmd(a),
		newExchangeCmd(a),
		newReadMemCmd(a),
		newWriteMemCmd(a),
		newExecuteCmd(a),
		newScratchCmd(a),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	logger, err := a.cfg.newLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger

	hw, err := bmi.ParseHardware(a.cfg.Hardware)
	if err != nil {
		return err
	}

	var targetOpts []sim.Option
	if a.cfg.Legacy {
		targetOpts = append(targetOpts, sim.WithLegacyTarget(legacyVersion))
	}
	if a.cfg.PendingEvents {
		targetOpts = append(targetOpts, sim.WithPendingEvents())
	}
	a.target = sim.New(targetOpts...)

	var bus bmi.Bus = a.target
	if a.cfg.Trace != "" {
		rec, err := trace.New(a.target, a.cfg.Trace)
		if err != nil {
			return err
		}
		a.recorder = rec
		atexit.Register(func() { rec.Close() })
		bus = rec
		logger.Debug("recording bus transactions", "path", a.cfg.Trace, "trace_session", rec.Session())
	}

	a.session = bmi.New(bus,
		bmi.WithHardware(hw),
		bmi.WithTimeoutBudget(a.cfg.Budget),
		bmi.WithConservativeRead(a.cfg.Conservative),
		bmi.WithLogger(bmi.NewSlogLogger(logger)),
	)
	return nil
}

func (a *app) teardown() error {
	if a.recorder == nil {
		return nil
	}
	if err := a.recorder.Close(); err != nil {
		return fmt.Errorf("close trace: %w", err)
	}
	return nil
}
