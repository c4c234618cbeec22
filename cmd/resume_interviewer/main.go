// Package main provides the entry point for the resume interviewer: an HTTP
// host for interview sessions, a terminal interview, and an offline renderer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-interviewer/internal/config"
	"github.com/jonathan/resume-interviewer/internal/logger"
)

const app = "resume_interviewer"

var (
	cfgFile string

	v         = config.New()
	cfg       *config.Config
	appLogger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:               app,
	Short:             "Resume Interviewer builds a resume from a guided conversation",
	Long:              "Resume Interviewer asks a candidate one question at a time, collects experience, education, skills and achievements from the answers, and renders the result as HTML, LaTeX or JSON.",
	SilenceUsage:      true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error { return initConfig() },
	PersistentPostRun: func(_ *cobra.Command, _ []string) { _ = appLogger.Sync() },
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to this rotating file")

	_ = v.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("json"))
	_ = v.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

// initConfig loads and validates configuration and builds the logger.
func initConfig() error {
	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logger.New(logger.Options{
		JSON:  loaded.Log.JSON,
		Debug: loaded.Log.Debug,
		File:  loaded.Log.File,
	})
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}

	cfg = loaded
	appLogger = l.With(zap.String("app", app))
	appLogger.Debug("configuration loaded",
		zap.String("provider", cfg.LLM.Provider),
		zap.Int("max_turns", cfg.Interview.MaxTurns),
		zap.Int("completion_threshold", cfg.Interview.CompletionThreshold))
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
