// @title			TATTrack API
// @version		1.0
// @description	Turnaround-time tracking and analytics for workspace agents.
// @BasePath		/api/v1

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/opskpi/tattrack/internal/analytics"
	"github.com/opskpi/tattrack/internal/config"
	"github.com/opskpi/tattrack/internal/database"
	"github.com/opskpi/tattrack/internal/handler"
	"github.com/opskpi/tattrack/internal/logger"
	"github.com/opskpi/tattrack/internal/report"
	"github.com/opskpi/tattrack/internal/repository"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "tattrack",
		Usage: "Turnaround-time tracking for workspace agents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "report",
				Usage: "Print the KPI report for a workspace and date range",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "workspace",
						Aliases:  []string{"w"},
						Usage:    "Workspace email",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "from",
						Usage: "Range start (YYYY-MM-DD, default 30 days ago)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Range end (YYYY-MM-DD, default today)",
					},
				},
				Action: runReport,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	databaseURL := c.String("database-url")

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	h := handler.New(db.Pool())

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runReport(c *cli.Context) error {
	ctx := c.Context
	databaseURL := c.String("database-url")
	workspace := strings.ToLower(strings.TrimSpace(c.String("workspace")))

	now := time.Now()
	to := c.String("to")
	if to == "" {
		to = now.Format("2006-01-02")
	}
	from := c.String("from")
	if from == "" {
		from = now.AddDate(0, 0, -30).Format("2006-01-02")
	}

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	agentRepo := repository.NewAgentRepository(db.Pool())
	txRepo := repository.NewTransactionRepository(db.Pool())

	agents, err := agentRepo.ListByWorkspace(ctx, workspace)
	if err != nil {
		return fmt.Errorf("list agents: %w", err)
	}

	txs, total, err := txRepo.List(ctx, repository.TxListFilters{
		WorkspaceEmail: workspace,
		DateFrom:       from,
		DateTo:         to,
	}, 1, 5000)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	rep := analytics.Aggregate(agents, txs)
	period := report.Period{From: from, To: to, WorkspaceEmail: workspace}
	tables := report.Assemble(rep, period, now)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, table := range tables {
		fmt.Fprintf(tw, "== %s ==\n", table.Name)
		for _, row := range table.Rows {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush report output: %w", err)
	}

	slog.Info("report generated",
		"workspace", workspace,
		"from", from,
		"to", to,
		"transactions", total,
	)

	return nil
}
