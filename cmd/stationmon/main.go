package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/api"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/cache"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/ingest"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/registry"
	"github.com/rafiaca4-del/station-monitor-dashboard/internal/series"
)

var cli struct {
	Registry   string `help:"Path or URL of the station registry spreadsheet." required:"" env:"STATIONMON_REGISTRY"`
	Data       string `help:"Path or URL of the multi-sheet time-series workbook." required:"" env:"STATIONMON_DATA"`
	Port       string `help:"HTTP server port." default:"8080" env:"STATIONMON_PORT"`
	WindowMode string `help:"Trailing-window reference mode: now or latest." default:"latest" env:"STATIONMON_WINDOW_MODE"`
	CacheDB    string `help:"SQLite path for the parsed-snapshot cache." default:":memory:" env:"STATIONMON_CACHE_DB"`
	Check      bool   `help:"Load both sources, print counts and exit."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("stationmon"),
		kong.Description("Station registry and time-series monitoring dashboard."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	mode, err := series.ParseReferenceMode(cli.WindowMode)
	if err != nil {
		log.Fatalf("window mode: %v", err)
	}

	db, err := sql.Open("sqlite", cli.CacheDB)
	if err != nil {
		log.Fatalf("open cache database: %v", err)
	}
	defer db.Close()

	snapshots := cache.New(db)
	if err := snapshots.Migrate(); err != nil {
		log.Fatalf("migrate cache: %v", err)
	}

	loader := &ingest.Loader{
		Cache:          snapshots,
		RegistryConfig: registry.DefaultConfig(),
		Filter:         series.Filter{Mode: mode},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess, err := loader.LoadSession(ctx, cli.Registry, cli.Data)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	reg := sess.Registry()
	log.Printf("loaded %d stations (%d active, %d dead), %d data sheets",
		reg.Count(), reg.CountByStatus("active"), reg.CountByStatus("dead"),
		len(sess.Store().SheetNames()))

	if cli.Check {
		return
	}

	server := api.NewServer(sess, cli.Port)
	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
