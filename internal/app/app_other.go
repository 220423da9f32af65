//go:build !windows

package app

import (
	"os"

	"github.com/fpawel/foodhub/internal/config"
)

// Main prints every view to stdout. The desktop window is only available on
// Windows.
func Main(cfg config.Config) error {
	log.Debug("viewer", "path", cfg.Database.Path)
	return Render(os.Stdout, Viewer{Config: cfg}, Views)
}
