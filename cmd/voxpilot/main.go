package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voxpilot/internal/assistant"
	"voxpilot/internal/browser"
	"voxpilot/internal/config"
	"voxpilot/internal/extract"
	"voxpilot/internal/handlers"
	"voxpilot/internal/llm"
	"voxpilot/internal/logging"
	"voxpilot/internal/notes"
	"voxpilot/internal/research"
	"voxpilot/internal/router"
	"voxpilot/internal/speech"
	"voxpilot/internal/websearch"
)

var version = "dev"

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd starts the interactive listening loop.
var rootCmd = &cobra.Command{
	Use:   "voxpilot",
	Short: "voxpilot - voice-driven personal assistant",
	Long: `voxpilot interprets spoken commands, routes them to capability
handlers (time, weather, Wikipedia, jokes, system stats, notes, web
research), and replies via synthesized speech.

Run without arguments to start the interactive command loop. Utterances
are read line by line; a speech front-end feeds transcriptions on stdin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		// Configuration failure is the only fatal startup error.
		cfg, err = config.Load(configPath, true)
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.File, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// runCmd dispatches a single utterance without audio input.
var runCmd = &cobra.Command{
	Use:   "run [utterance]",
	Short: "Dispatch one command and print the spoken reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, cleanup, err := buildAssistant(true)
		if err != nil {
			return err
		}
		defer cleanup()

		utterance := strings.ToLower(strings.TrimSpace(strings.Join(args, " ")))
		spoken, _ := a.Dispatch(cmd.Context(), utterance)
		fmt.Println(spoken)
		return nil
	},
}

// researchCmd runs the pipeline once and prints the result.
var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Run the search-scrape-summarize pipeline for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		pipeline := buildPipeline()

		logger.Info("running research pipeline", zap.String("query", query))
		result := pipeline.Run(cmd.Context(), research.Request{
			Query:    query,
			MaxChars: cfg.Scraping.MaxChars,
		})
		fmt.Println(result.Spoken(query))
		if result.Kind != research.KindSummary {
			return fmt.Errorf("pipeline ended with %s", result.Kind)
		}
		return nil
	},
}

// notesCmd prints the saved notes.
var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "List saved notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := notes.NewStore(cfg.Identity.NotesFile)
		lines, err := store.List()
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			fmt.Println("No notes saved yet.")
			return nil
		}
		for _, line := range lines {
			fmt.Println(line)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voxpilot %s\n", version)
	},
}

func buildPipeline() *research.Pipeline {
	searcher := websearch.New(nil)
	renderer := browser.New(browser.Config{
		Headless:          cfg.Scraping.Headless,
		NavigationTimeout: cfg.NavigationTimeout(),
	}, logger)
	extractor := extract.New()
	model := llm.NewGroqClient(llm.GroqConfig{
		APIKey:      cfg.APIKeys.Groq,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLMTimeout(),
	})

	pcfg := research.DefaultConfig()
	pcfg.SearchTimeout = cfg.SearchTimeout()
	pcfg.NavigateTimeout = cfg.NavigationTimeout()
	pcfg.SummarizeTimeout = cfg.LLMTimeout()
	return research.New(searcher, renderer, extractor, model, pcfg, logger)
}

func buildAssistant(echoOnly bool) (*assistant.Assistant, func(), error) {
	listener, speaker := speech.Console(cfg.Identity.AssistantName, cfg.ListenTimeout(), echoOnly || cfg.Speech.DisablePlayback, logger)

	model := llm.NewGroqClient(llm.GroqConfig{
		APIKey:      cfg.APIKeys.Groq,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLMTimeout(),
	})
	store := notes.NewStore(cfg.Identity.NotesFile)
	set := handlers.New(cfg, model, buildPipeline(), store, listener, speaker, logger)

	var session *logging.SessionLog
	cleanup := func() {}
	if cfg.Logging.SessionLog != "" {
		var err error
		session, err = logging.OpenSessionLog(cfg.Logging.SessionLog)
		if err != nil {
			logger.Warn("session log disabled", zap.Error(err))
		} else {
			cleanup = func() { _ = session.Close() }
		}
	}

	a := assistant.New(cfg, listener, speaker, router.New(router.DefaultRules()), set, session, logger)
	return a, cleanup, nil
}

func runInteractive() error {
	a, cleanup, err := buildAssistant(false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Run(ctx)
	logger.Info("assistant shut down")
	return nil
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "voxpilot.yaml", "path to config file")
	rootCmd.AddCommand(runCmd, researchCmd, notesCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
