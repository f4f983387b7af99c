package utilities

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the process-wide logger. It discards everything until InitLogger runs.
var Logger = zerolog.Nop()

// InitLogger configures Logger. Unknown levels fall back to info.
func InitLogger(level string, pretty bool) {
	InitLoggerWithWriter(os.Stdout, level, pretty)
}

func InitLoggerWithWriter(out io.Writer, level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}
	}
	Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// LogRequest logs one finished HTTP request; 4xx as warn, 5xx as error.
func LogRequest(method, path, remoteAddr string, status, bytes int, duration time.Duration) {
	var evt *zerolog.Event
	switch {
	case status >= 500:
		evt = Logger.Error()
	case status >= 400:
		evt = Logger.Warn()
	default:
		evt = Logger.Info()
	}
	evt.Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Int("status", status).
		Int("bytes", bytes).
		Dur("duration", duration).
		Msg("request")
}

func LogError(err error, context string) {
	Logger.Error().Err(err).Msg(context)
}

func LogDebug(format string, v ...interface{}) {
	Logger.Debug().Msg(fmt.Sprintf(format, v...))
}

func LogInfo(format string, v ...interface{}) {
	Logger.Info().Msg(fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...interface{}) {
	Logger.Warn().Msg(fmt.Sprintf(format, v...))
}

// PanicLogger adapts Logger to the Println logger expected by
// gorilla/handlers.RecoveryHandler.
type PanicLogger struct{}

func (PanicLogger) Println(v ...interface{}) {
	Logger.Error().Msg(fmt.Sprint(v...))
}
