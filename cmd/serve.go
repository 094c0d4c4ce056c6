package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/floralens/floralens/internal/config"
	"github.com/floralens/floralens/internal/handlers"
	"github.com/floralens/floralens/internal/identify"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the plant identification interface",
		Long: `Starts the FloraLens web interface on the specified port.

The web interface allows you to upload a plant photo or capture one with
your camera and identify it using vision-capable LLMs (Gemini, Ollama or
OpenAI).`,
		Example: `  # Start server on default port 8888
  floralens serve

  # Start server on custom port
  floralens serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}

			service := identify.NewService(
				identify.WithProvider(settings.Provider),
				identify.WithModel(settings.Model),
				identify.WithTimeout(time.Duration(settings.Timeout)),
				identify.WithStripPatterns(settings.StripPatterns...),
			)
			handler := handlers.New(identify.NewPipeline(service), settings.StaticDir)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/sessions", handler.HandleSessions)
			mux.HandleFunc("/api/sessions/", handler.HandleSessionDetail)
			mux.HandleFunc("/api/upload", handler.HandleUpload)
			mux.HandleFunc("/api/camera/open", handler.HandleCameraOpen)
			mux.HandleFunc("/api/camera/frame", handler.HandleCameraFrame)
			mux.HandleFunc("/api/camera/capture", handler.HandleCameraCapture)
			mux.HandleFunc("/api/camera/close", handler.HandleCameraClose)
			mux.HandleFunc("/api/identify", handler.HandleIdentify)
			mux.HandleFunc("/", handler.HandleStatic)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("FloraLens interface available", "addr", addr, "url", "http://localhost"+addr, "provider", service.Provider(), "model", service.Model())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to floralens.yaml settings file")

	return cmd
}
