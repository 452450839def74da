package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/recipebox/recipebox-go/internal/config"
	"github.com/recipebox/recipebox-go/internal/logging"
	"github.com/recipebox/recipebox-go/internal/migrations"
	"github.com/recipebox/recipebox-go/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.LoadMigrate()
	slog.SetDefault(logging.New(cfg.Env, cfg.LogLevel))

	dsn := flag.String("dsn", cfg.DatabaseDSN, "MySQL DSN")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-dsn DSN] up|down|status\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	commands := map[string]func(context.Context, *sql.DB) error{
		"up":     migrations.Up,
		"down":   migrations.Down,
		"status": migrations.Status,
	}
	run, ok := commands[flag.Arg(0)]
	if !ok {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	db, err := repository.NewDB(ctx, *dsn)
	if err != nil {
		slog.Error("connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := run(ctx, db); err != nil {
		slog.Error("migration failed", "command", flag.Arg(0), "error", err)
		db.Close()
		os.Exit(1)
	}
	slog.Info("migration complete", "command", flag.Arg(0))
}
