package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"metawash/internal/config"
	"metawash/internal/scrubber"
	"metawash/internal/server"
)

var servePreserveICC bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the metadata scrub service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		srv := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      server.NewRouter(scrubber.Options{PreserveICC: servePreserveICC}),
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		errc := make(chan error, 1)
		go func() {
			log.Printf("scrub service listening on :%s", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errc <- err
			}
		}()

		select {
		case err := <-errc:
			return err
		case <-quit:
		}

		log.Println("shutting down gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}

		log.Println("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&servePreserveICC, "preserve-icc", false, "preserve ICC color profiles when scrubbing")

	rootCmd.AddCommand(serveCmd)
}
