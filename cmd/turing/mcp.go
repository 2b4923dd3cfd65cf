package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/pkg/adapters/loam"
	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes machine sessions as MCP tools (create_machine, advance, reset, view,
graph, preview). Machines in --dir can be started by name.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		redisAddr, _ := cmd.Flags().GetString("redis")

		svc, err := cli.NewService(cli.ServiceOptions{RedisAddr: redisAddr, Logger: logger})
		if err != nil {
			return err
		}
		defer svc.Close()

		opts := []mcp.Option{mcp.WithLogger(logger)}
		if lib, err := loam.Open(dir, true); err == nil {
			opts = append(opts, mcp.WithLibrary(lib))
		} else {
			logger.Warn("machine library unavailable", "dir", dir, "err", err)
		}
		srv := mcp.NewServer(svc.Manager, opts...)

		switch transport {
		case "stdio":
			// Keep stdout clean for JSON-RPC.
			log.SetOutput(os.Stderr)
			logger.Info("Starting Turing MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			sigCtx, stop := cli.WithSignals(cmd.Context())
			defer stop()

			logger.Info("Starting Turing MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(sigCtx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("redis", "", "Redis address for sessions (default in-memory)")
}
