package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Hosts machine sessions behind a JSON API: create, advance, reset, view, graph and preview.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		redisAddr, _ := cmd.Flags().GetString("redis")
		sessions, _ := cmd.Flags().GetString("sessions")
		withMetrics, _ := cmd.Flags().GetBool("metrics")

		svc, err := cli.NewService(cli.ServiceOptions{
			RedisAddr:   redisAddr,
			SessionsDir: sessions,
			Metrics:     withMetrics,
			Logger:      logger,
		})
		if err != nil {
			return err
		}
		defer svc.Close()

		srv := &http.Server{
			Addr:    addr,
			Handler: svc.Handler,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting Turing Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx, stop := cli.WithSignals(cmd.Context())
		defer stop()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			fmt.Printf("\nStart shutdown... Signal: %v\n", cli.Interrupted(sigCtx))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				if cerr := srv.Close(); cerr != nil {
					return errors.Join(err, cerr)
				}
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			fmt.Println("Turing Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for sessions and locks (e.g. localhost:6379)")
	serveCmd.Flags().String("sessions", "", "Directory for JSON session files (ignored with --redis)")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
}
