package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/saad/internal/cli"
	"github.com/alexanderramin/saad/internal/cli/formatter"
	"github.com/alexanderramin/saad/internal/config"
	"github.com/alexanderramin/saad/internal/db"
	"github.com/alexanderramin/saad/internal/intake"
	"github.com/alexanderramin/saad/internal/llm"
	"github.com/alexanderramin/saad/internal/repository"
	"github.com/alexanderramin/saad/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LLM.LogCalls {
		observer = llm.NewLogObserver(logger)
	}
	client := llm.NewClient(cfg.LLM, observer)
	analyzer := intake.NewService(client, logger)

	ws := service.NewWorkspace(repository.NewSQLiteStore(database), analyzer,
		service.WithLogger(logger),
		service.WithObserver(service.NewLogUseCaseObserver(logger)),
		service.WithNoticeSink(func(n service.Notice) {
			logger.Warn("background write failed", "project_id", n.ProjectID, "op", n.Op, "error", n.Err)
			fmt.Fprintln(os.Stderr, formatter.StyleRed.Render("✖ "+n.String()))
		}),
	)
	ctx := context.Background()
	if err := ws.Load(ctx); err != nil {
		return fmt.Errorf("loading projects: %w", err)
	}
	defer ws.Settle()

	app := &cli.App{
		Workspace: ws,
		Logger:    logger,
		HTTPAddr:  cfg.HTTPAddr,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
	if cfg.LLM.Enabled {
		app.ModelAvailable = client.Available
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
