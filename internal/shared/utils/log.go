// Package utils holds the process-wide logging setup and the
// structured log helpers shared by every binary.
package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fields attaches structured context to a log line.
type Fields = map[string]interface{}

// InitLogger configures the global zerolog logger for console output.
// Call once at process start, before the first log line.
func InitLogger() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

func LogInfo(msg string, fields Fields) {
	withFields(log.Info(), fields).Msg(msg)
}

func LogWarn(msg string, fields Fields) {
	withFields(log.Warn(), fields).Msg(msg)
}

func LogError(msg string, err error, fields Fields) {
	withFields(log.Error().Err(err), fields).Msg(msg)
}

func withFields(event *zerolog.Event, fields Fields) *zerolog.Event {
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	return event
}
