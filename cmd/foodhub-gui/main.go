package main

import (
	"flag"
	"os"

	"github.com/fpawel/foodhub/internal/app"
	"github.com/fpawel/foodhub/internal/config"
	"github.com/powerman/structlog"
)

func main() {
	configFile := flag.String("config", config.DefaultFileName, "configuration file, .yaml or .toml")
	dbPath := flag.String("db", "", "database file, overrides the configuration")
	flag.Parse()

	cfg, err := config.Resolve(*configFile)
	if err != nil {
		structlog.New().PrintErr(err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	app.InitLog(cfg.LogLevel)

	if err := app.Main(cfg); err != nil {
		structlog.New().PrintErr(err)
		os.Exit(1)
	}
}
