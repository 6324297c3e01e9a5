package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Setup builds the process logger writing to stdout.
//   - app: binary name, attached to every entry as "app"
//   - level: trace, debug, info, warn, error, fatal or panic; anything else means info
//   - format: "pretty" for console output, anything else for JSON lines
func Setup(app, level, format string) zerolog.Logger {
	return SetupWriter(os.Stdout, app, level, format)
}

// SetupWriter is Setup with an explicit destination. The terminal runner
// logs to stderr so the exam itself owns stdout.
func SetupWriter(out io.Writer, app, level, format string) zerolog.Logger {
	writer := out
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    !isTerminal(out),
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(writer).With().Timestamp().Caller()
	if app != "" {
		ctx = ctx.Str("app", app)
	}
	return ctx.Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
