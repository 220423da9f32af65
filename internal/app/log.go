package app

import (
	"os"
	"path/filepath"

	"github.com/powerman/structlog"
)

var log = structlog.New()

// InitLog configures the default logger with the configured level name.
func InitLog(level string) {
	structlog.DefaultLogger.
		SetLogLevel(structlog.ParseLevel(level)).
		SetPrefixKeys(
			structlog.KeyApp, structlog.KeyPID, structlog.KeyLevel, structlog.KeyUnit, structlog.KeyTime,
		).
		SetDefaultKeyvals(
			structlog.KeyApp, filepath.Base(os.Args[0]),
			structlog.KeySource, structlog.Auto,
		).
		SetSuffixKeys(
			structlog.KeyStack,
		).
		SetSuffixKeys(structlog.KeySource).
		SetKeysFormat(map[string]string{
			structlog.KeyTime:   " %[2]s",
			structlog.KeySource: " %6[2]s",
			structlog.KeyUnit:   " %6[2]s",
			"path":              " %[2]q",
		}).SetTimeFormat("15:04:05")
}

func panicIf(err error) {
	if err != nil {
		panic(err)
	}
}
