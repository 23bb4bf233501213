package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/moffa90/go-bmi/protocol"
)

// config holds the bmictl settings shared by every command.
type config struct {
	Hardware      string
	Legacy        bool
	Budget        int
	Conservative  bool
	PendingEvents bool
	Trace         string
	LogLevel      string
	LogFormat     string
}

// loadConfig reads BMICTL_* variables. Unset or malformed values keep
// their defaults.
func loadConfig() config {
	return config{
		Hardware:      envString("BMICTL_HARDWARE", "lookahead"),
		Legacy:        envBool("BMICTL_LEGACY", false),
		Budget:        envInt("BMICTL_BUDGET", protocol.CommunicationTimeout),
		Conservative:  envBool("BMICTL_CONSERVATIVE", false),
		PendingEvents: envBool("BMICTL_PENDING_EVENTS", false),
		Trace:         envString("BMICTL_TRACE", ""),
		LogLevel:      envString("BMICTL_LOG_LEVEL", "info"),
		LogFormat:     envString("BMICTL_LOG_FORMAT", "text"),
	}
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// newLogger builds the slog logger selected by LogLevel and LogFormat.
func (c config) newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.LogFormat) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", c.LogFormat)
	}
}
