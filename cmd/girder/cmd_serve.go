package main

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"girder/internal/httpapi"
	"girder/internal/logging"
	"girder/internal/metrics"
	mcpserver "girder/internal/mcp"
	"girder/pkg/pipeline"
)

var (
	serveHTTP bool
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the validation pipeline over stdio MCP or HTTP",
	Long: `By default, starts an MCP server over stdin/stdout so agent hosts can call
validation tools directly. The server monitors for parent process death and
self-terminates to prevent zombie processes.

With --http, serves a REST API (POST /api/v1/validate) with Prometheus
metrics on /metrics instead.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "serve HTTP instead of stdio MCP")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveHTTP {
		return runServeHTTP(cmd)
	}
	return runServeMCP(cmd)
}

func runServeMCP(cmd *cobra.Command) error {
	pipe, err := buildPipeline(cfg, &pipeline.LogObserver{Logger: logging.New("pipeline")})
	if err != nil {
		return err
	}
	srv := mcpserver.NewServer(pipe)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchParent(ctx, cancel)

	logging.New("mcp").Info("starting girder MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func runServeHTTP(cmd *cobra.Command) error {
	m := metrics.New()
	pipe, err := buildPipeline(cfg, m)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.HTTP.Addr
	}

	logger := logging.New("http")
	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewServer(pipe, m, logger).Router(),
	}

	go func() {
		<-cmd.Context().Done()
		srv.Shutdown(context.Background())
	}()

	logger.Info("starting girder HTTP server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
