package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deepgate/deepgate/internal/actions"
	"github.com/deepgate/deepgate/internal/agent"
	"github.com/deepgate/deepgate/internal/collab"
	"github.com/deepgate/deepgate/internal/command"
	"github.com/deepgate/deepgate/internal/config"
	"github.com/deepgate/deepgate/internal/gateway"
	"github.com/deepgate/deepgate/internal/logger"
	"github.com/deepgate/deepgate/internal/textscan"
	"github.com/deepgate/deepgate/internal/workspace"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the WebSocket gateway",
	Long: `Run the gateway server. Clients connect to ws://<listen-addr>/ws and
exchange JSON request/response envelopes; /healthz and /metrics are
served on the same listener.`,
	RunE: runServeE,
}

var (
	serveListen  string
	serveRoot    string
	serveVerbose bool
)

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveRoot, "workspace", "", "Workspace root directory (overrides config)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Enable debug logging")
}

func runServe(cmd *cobra.Command, args []string) {
	if err := runServeE(cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runServeE(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Server.Listen = serveListen
	}
	if serveRoot != "" {
		cfg.Server.WorkspaceRoot = serveRoot
	}

	level := slog.LevelInfo
	if serveVerbose {
		level = slog.LevelDebug
	}
	if err := logger.Init(cfg.Log.Dir, cfg.Log.JSON, level); err != nil {
		return err
	}
	defer logger.Close()
	log := slog.Default()

	collaborator, err := collab.New(collab.Config{
		Provider:    cfg.Collaborator.Provider,
		Model:       cfg.Collaborator.Model,
		MaxTokens:   cfg.Collaborator.MaxTokens,
		Temperature: cfg.Collaborator.Temperature,
		BaseURL:     cfg.Collaborator.BaseURL,
	})
	if err != nil {
		return err
	}
	if !collaborator.IsConfigured() {
		log.Warn("collaborator has no credentials, code-assist actions will fail",
			"provider", collaborator.Name())
	}

	ws := workspace.New(cfg.Server.WorkspaceRoot, cfg.Backup.Suffix)
	reg, err := actions.BuildRegistry(actions.Deps{
		Workspace: ws,
		Scanner:   textscan.NewEngine(ws),
		Runner:    command.NewRunner(cfg.Server.WorkspaceRoot, cfg.Command.DefaultTimeout),
		Agent:     agent.New(collaborator, cfg.Collaborator.Timeout, log),
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	log.Info("starting gateway",
		"version", appVersion,
		"workspace", cfg.Server.WorkspaceRoot,
		"collaborator", collaborator.Name())

	server := gateway.New(cfg.Server, reg, appVersion, log)
	return server.Start(ctx)
}
