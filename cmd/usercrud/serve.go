package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/dusk-indust/usercrud/internal/devapi"
	"github.com/dusk-indust/usercrud/internal/devapi/sqlite"
	"github.com/dusk-indust/usercrud/internal/mcptools"
	"github.com/dusk-indust/usercrud/internal/telemetry"
	"github.com/dusk-indust/usercrud/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var addr, mcpAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the users form",
		Long:  "Serves the users form over HTTP. With --mcp-addr the MCP tools are served over streamable HTTP alongside it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("mcp-addr") {
				cfg.MCPAddr = mcpAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdown, err := telemetry.Setup(ctx, "usercrud", cfg.OTelEndpoint)
			if err != nil {
				return fmt.Errorf("telemetry: %w", err)
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					log.Printf("telemetry: shutdown: %v", err)
				}
			}()

			client := a.client(cfg)
			log.Printf("web: user service at %s", client.BaseURL())

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				srv := web.NewServer(client,
					web.WithRequestLog(cfg.Verbose),
					web.WithSessionLimits(cfg.MaxSessions, cfg.SessionIdle),
				)
				return srv.ListenAndServe(gctx, cfg.Addr)
			})
			if cfg.MCPAddr != "" {
				g.Go(func() error {
					return mcptools.RunMCPServer(gctx, mcptools.NewUsersService(client), version, cfg.MCPAddr)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address for the form (default from config, :8080)")
	cmd.Flags().StringVar(&mcpAddr, "mcp-addr", "", "also serve MCP over streamable HTTP on this address")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := mcptools.NewUsersMCPServer(mcptools.NewUsersService(a.client(cfg)), version)
			return mcptools.RunStdio(ctx, server)
		},
	}
}

func newDevAPICmd(a *app) *cobra.Command {
	var addr, dbPath string

	cmd := &cobra.Command{
		Use:   "devapi",
		Short: "Run a local reference UserService",
		Long:  "Runs a UserService implementing GET /, POST /, PUT /{id} and DELETE /{id}. Records live in memory unless --db names a SQLite file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.DevAPI.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.DevAPI.DBPath = dbPath
			}

			store, closeStore, err := openDevStore(cfg.DevAPI.DBPath)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return devapi.ListenAndServe(ctx, cfg.DevAPI.Addr, devapi.NewHandler(store))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8081)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path; empty keeps records in memory")
	return cmd
}

// openDevStore returns the SQLite store for a non-empty path and the memory
// store otherwise.
func openDevStore(path string) (devapi.Store, func(), error) {
	if path == "" {
		log.Printf("devapi: using in-memory store")
		return devapi.NewMemStore(), func() {}, nil
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	log.Printf("devapi: using sqlite store %s", path)
	return store, func() {
		if err := store.Close(); err != nil {
			log.Printf("devapi: close store: %v", err)
		}
	}, nil
}
