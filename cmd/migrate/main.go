package main

import (
	"flag"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/arthur3336/orderflow-engine/config"
	"github.com/arthur3336/orderflow-engine/pkg/infra"
	"github.com/arthur3336/orderflow-engine/pkg/logging"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}
	log := logging.MustInit(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	mgTool := infra.GetMigrateTool()
	mgTool.Migrate("file://migration/sql", cfg.JournalDB.MigrationConnURL)
}
