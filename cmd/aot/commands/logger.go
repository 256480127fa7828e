package commands

import (
	"io"
	"os"

	"github.com/fivetwenty-io/aot-client/pkg/aot"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLogger builds the CLI logger. Output is human readable when w is a
// terminal and JSON otherwise. Debug messages are shown only when verbose.
func NewLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := w
	if isTerminal(w) {
		out = zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
			cw.Out = w
		})
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// zerologAdapter implements aot.Logger on top of zerolog.
type zerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps logger as an aot.Logger.
func NewZerologAdapter(logger zerolog.Logger) aot.Logger {
	return &zerologAdapter{logger: logger}
}

func (l *zerologAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

func (l *zerologAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error().Fields(fields).Msg(msg)
}

// cliLogger returns the logger configured by the global flags.
func cliLogger() zerolog.Logger {
	return NewLogger(os.Stderr, viper.GetBool("verbose"))
}
