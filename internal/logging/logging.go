// Package logging initializes zerolog for the Query Service and ingestion
// CLI, and adapts it to the internal/rag/service.Logger interface.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures zerolog's global logger: RFC3339Nano timestamps, JSON to
// stdout, and the given level (defaulting to info on an unrecognized or
// empty value).
func Init(level string) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(os.Stdout).With().Timestamp().Logger()

	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl := zerolog.InfoLevel
	if level != "" {
		if l, err := zerolog.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	zerolog.SetGlobalLevel(lvl)
}

// ZerologAdapter satisfies internal/rag/service.Logger by forwarding to the
// global zerolog logger, attaching fields as key/value pairs.
type ZerologAdapter struct{}

func (ZerologAdapter) Info(msg string, fields map[string]any) {
	withFields(log.Info(), fields).Msg(msg)
}

func (ZerologAdapter) Error(msg string, fields map[string]any) {
	withFields(log.Error(), fields).Msg(msg)
}

func (ZerologAdapter) Debug(msg string, fields map[string]any) {
	withFields(log.Debug(), fields).Msg(msg)
}

func withFields(e *zerolog.Event, fields map[string]any) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
