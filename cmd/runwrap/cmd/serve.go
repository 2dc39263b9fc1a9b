package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/runwrap/runwrap/internal/api"
)

var (
	serveListen string
	serveLogDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only HTTP API over the execution history",
	Long: `Serve exposes the execution history as JSON over HTTP:

  GET /healthz
  GET /executions?prefix=&limit=
  GET /executions/{name}

This is a local operator surface with no authentication; bind it to
loopback unless the network is trusted.

Example:
  runwrap serve
  runwrap serve --listen 127.0.0.1:9200 --log-dir /var/log/runwrap`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from config)")
	serveCmd.Flags().StringVar(&serveLogDir, "log-dir", "", "directory to serve (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	listen := serveListen
	if listen == "" {
		listen = cfg.Listen
	}
	dir := serveLogDir
	if dir == "" {
		dir = cfg.LogDir
	}

	server := api.NewServer(dir)
	log.Printf("[runwrap] serving execution history from %s on %s", dir, listen)
	if err := http.ListenAndServe(listen, server.Handler()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
