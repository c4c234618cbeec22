package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-interviewer/internal/llm"
	"github.com/jonathan/resume-interviewer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server that hosts interview sessions: setup, streamed questions, early finish, reset, and resume downloads.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	client, err := llm.NewClient(context.Background(), cfg.LLMClientConfig(), cfg.LLM.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowedOrigin:   cfg.Server.AllowedOrigin,
		Interview:       cfg.Interview,
		SessionIdle:     cfg.Sessions.IdleTimeout,
		SessionCleanup:  cfg.Sessions.CleanupInterval,
	}, client, appLogger)
	if err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	appLogger.Info("serving interviews",
		zap.Int("port", cfg.Server.Port),
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", client.GetModel(llm.TierStandard)))
	return srv.Start()
}
