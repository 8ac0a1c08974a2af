package store

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// gooseLogger adapts slog to Goose's logger interface, which expects Printf
// and Fatalf.
type gooseLogger struct {
	l *slog.Logger
}

func (g *gooseLogger) Printf(format string, v ...interface{}) {
	g.logger().Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (g *gooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger().Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
	os.Exit(1)
}

func (g *gooseLogger) logger() *slog.Logger {
	if g == nil || g.l == nil {
		return slog.Default()
	}
	return g.l
}
