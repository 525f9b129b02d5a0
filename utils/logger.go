package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/config"
)

var (
	InfoLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

func init() {
	InitLogger(config.LogConfig{})
}

// InitLogger builds the two process loggers. When cfg.File is set both of
// them also write to that file, rotated by size.
func InitLogger(cfg config.LogConfig) {
	var file io.Writer
	if cfg.File != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}

	InfoLogger = newLogger(os.Stdout, file)
	ErrorLogger = newLogger(os.Stderr, file)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	InfoLogger.SetLevel(level)
	ErrorLogger.SetLevel(logrus.ErrorLevel)
}

func newLogger(out io.Writer, file io.Writer) *logrus.Logger {
	l := logrus.New()
	if file != nil {
		out = io.MultiWriter(out, file)
	}
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// Silence discards everything the process loggers write. Tests use it.
func Silence() {
	InfoLogger.SetOutput(io.Discard)
	ErrorLogger.SetOutput(io.Discard)
}
