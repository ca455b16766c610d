package logging

import (
	"io"
	"os"

	"github.com/op/go-logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/depositlabs/deposit-auditor/config"
)

// Logger is the process-wide logger, usable before InitLogger with
// default console output.
var Logger = logging.MustGetLogger("deposit-auditor")

var format = logging.MustStringFormatter(
	`%{time:2006-01-02 15:04:05.000} %{shortfile} [%{level:.4s}] %{message}`,
)

// InitLogger configures the global logger from config: console and/or a
// rotating file backend, at the configured level.
func InitLogger(cfg *config.LogConfig) {
	writers := make([]io.Writer, 0, 2)
	if cfg.UseConsoleLogger {
		writers = append(writers, os.Stdout)
	}
	if cfg.UseFileLogger {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxFileSizeInMB,
			MaxBackups: cfg.MaxBackupsOfLogFiles,
			MaxAge:     cfg.MaxAgeToRetainLogFilesInDays,
			Compress:   cfg.Compress,
		})
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	backend := logging.NewLogBackend(io.MultiWriter(writers...), "", 0)
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, format))

	level, err := logging.LogLevel(cfg.Level)
	if err != nil {
		level = logging.INFO
	}
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}
