package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options configures the process logger
type Options struct {
	Verbose bool
	// LogPath, when set, receives JSON log lines in addition to the console
	LogPath string
	// Console defaults to os.Stderr
	Console io.Writer
}

var (
	logFile *os.File
	mu      sync.Mutex
	isSetup bool
)

// SetupLogger installs the global zerolog logger
func SetupLogger(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	if isSetup {
		return nil
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	var out io.Writer = zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}

	if opts.LogPath != "" {
		f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		out = zerolog.MultiLevelWriter(out, f)
	}

	if opts.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	if logFile != nil {
		log.Debug().Str("path", opts.LogPath).Msg("log file opened")
	}
	isSetup = true
	return nil
}

// CloseLogger closes the log file, if any, and resets to console output
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		logFile.Close()
		logFile = nil
	}
	isSetup = false
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	log.Info().Msgf(format, args...)
}

// DebugLog logs a message when debug level is enabled
func DebugLog(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	log.Error().Msgf(format, args...)
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	log.Warn().Msgf(format, args...)
}

// LogComparison logs the outcome of one metric evaluation
func LogComparison(key, tag, metric string, value float64, err error) {
	if err != nil {
		log.Warn().
			Str("parameters", key).
			Str("datatype", tag).
			Str("metric", metric).
			Err(err).
			Msg("metric failed")
		return
	}
	log.Debug().
		Str("parameters", key).
		Str("datatype", tag).
		Str("metric", metric).
		Float64("value", value).
		Msg("metric computed")
}
