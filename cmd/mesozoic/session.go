package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mesozoic/internal/prof"
	"mesozoic/internal/trace"
)

// session holds what a command run sets up from the global flags and tears
// down after it, whatever the outcome.
type session struct {
	log       *zap.Logger
	tracer    trace.Tracer
	mode      trace.StorageMode
	heartbeat *trace.Heartbeat
	profiles  *prof.Session
}

var current *session

func openSession(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	colorMode, _ := flags.GetString("color")
	logLevel, _ := flags.GetString("log-level")
	traceOut, _ := flags.GetString("trace")
	traceLevel, _ := flags.GetString("trace-level")
	traceMode, _ := flags.GetString("trace-mode")
	traceFormat, _ := flags.GetString("trace-format")
	ringSize, _ := flags.GetInt("trace-ring-size")
	heartbeat, _ := flags.GetDuration("trace-heartbeat")
	cpuProfile, _ := flags.GetString("cpu-profile")
	memProfile, _ := flags.GetString("mem-profile")
	runtimeTrace, _ := flags.GetString("runtime-trace")

	switch colorMode {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}
	color.NoColor = !colorEnabled(cmd, os.Stdout)

	level, err := trace.ParseLevel(traceLevel)
	if err != nil {
		return err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOut != "" && !flags.Changed("trace-level") {
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(traceMode)
	if err != nil {
		return err
	}
	format, err := trace.ParseFormat(traceFormat)
	if err != nil {
		return err
	}

	log, err := newLogger(logLevel, mode == trace.ModeZap && level > trace.LevelOff, colorEnabled(cmd, os.Stderr))
	if err != nil {
		return err
	}
	s := &session{log: log, mode: mode}
	current = s

	s.tracer, err = trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOut,
		RingSize:   ringSize,
		Heartbeat:  heartbeat,
		Logger:     log,
	})
	if err != nil {
		return err
	}
	s.heartbeat = trace.StartHeartbeat(s.tracer, heartbeat)
	cmd.SetContext(trace.WithTracer(cmd.Context(), s.tracer))

	s.profiles, err = prof.Start(prof.Options{CPU: cpuProfile, Heap: memProfile, Trace: runtimeTrace})
	if err != nil {
		return err
	}
	log.Debug("session opened",
		zap.String("command", cmd.CommandPath()),
		zap.Stringer("trace_level", level),
		zap.Stringer("trace_mode", mode))
	return nil
}

// closeSession stops the heartbeat and profilers and closes the tracer. A
// ring tracer is dumped to stderr when the command failed.
func closeSession(failed bool) {
	s := current
	if s == nil {
		return
	}
	current = nil
	s.heartbeat.Stop()
	if ring := trace.RingOf(s.tracer); ring != nil && failed && s.mode == trace.ModeRing {
		fmt.Fprintf(os.Stderr, "trace: last %d events\n", ring.Len())
		if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
			s.log.Warn("trace dump failed", zap.Error(err))
		}
	}
	if s.tracer != nil {
		if err := s.tracer.Close(); err != nil {
			s.log.Warn("trace close failed", zap.Error(err))
		}
	}
	if s.profiles != nil {
		if err := s.profiles.Stop(); err != nil {
			s.log.Warn("profiling failed", zap.Error(err))
		}
	}
	_ = s.log.Sync()
}

// logger returns the session logger, a no-op one outside a session.
func logger() *zap.Logger {
	if current == nil {
		return zap.NewNop()
	}
	return current.log
}

// newLogger builds the console logger on stderr. The zap trace mode logs
// at debug level, so the logger is opened to debug when it is in use.
func newLogger(level string, traceToLog, colored bool) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	if traceToLog {
		lvl = zapcore.DebugLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if colored {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg.Build()
}

// colorEnabled resolves --color for output going to f. NO_COLOR wins over
// auto but not over an explicit "on".
func colorEnabled(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(f)
}

func tracerOf(cmd *cobra.Command) trace.Tracer {
	return trace.FromContext(cmd.Context())
}
