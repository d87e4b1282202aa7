// Package logger writes SmartGrow's diagnostic log. Lines go to a rotating
// file under the config directory; --verbose mirrors them to the console.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/smartgrow/internal/constants"
)

// Logger is nil until Init runs; the package helpers are no-ops before that.
var Logger *log.Logger

// Scan images are never logged, so a few small files cover weeks of use.
const (
	maxFileMB  = 5
	maxBackups = 4
	maxAgeDays = 30
)

type Config struct {
	// Verbose lowers the level to debug, adds caller info and mirrors every
	// line to Console.
	Verbose   bool
	ConfigDir string
	// Level is the log_level setting; it wins over Verbose when set.
	Level string
	// Console defaults to stderr so stdout stays reserved for command output.
	Console io.Writer
}

func (c Config) level() (log.Level, error) {
	if c.Level != "" {
		lvl, err := log.ParseLevel(c.Level)
		if err != nil {
			return 0, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		return lvl, nil
	}
	if c.Verbose {
		return log.DebugLevel, nil
	}
	return log.WarnLevel, nil
}

// Init points the global Logger at <ConfigDir>/logs/smartgrow.log.
func Init(cfg Config) error {
	lvl, err := cfg.level()
	if err != nil {
		return err
	}

	dir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	var out io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.LogFileName),
		MaxSize:    maxFileMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	if cfg.Verbose {
		console := cfg.Console
		if console == nil {
			console = os.Stderr
		}
		out = io.MultiWriter(console, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		Level:           lvl,
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Verbose,
	})
	return nil
}

// Named tags lines with the emitting subsystem (tracker, storage, server...).
func Named(component string) *log.Logger {
	if Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return Logger.With("component", component)
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Helper()
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Helper()
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Helper()
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Helper()
		Logger.Error(msg, keyvals...)
	}
}
