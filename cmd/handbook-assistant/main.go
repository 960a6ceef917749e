package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	assistant "github.com/contoso-labs/handbook-assistant"
	"github.com/contoso-labs/handbook-assistant/common/logger"
	"github.com/contoso-labs/handbook-assistant/config"
	"github.com/contoso-labs/handbook-assistant/httpapi"
)

var (
	configPath string
	addr       string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:          "handbook-assistant",
		Short:        "Employee handbook Q&A assistant",
		Version:      assistant.Version,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// .env is optional
			_ = godotenv.Load()
			if verbose {
				logger.SetLevel(logger.LevelDebug)
			}
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the assistant over MCP on stdio",
		RunE:  runMCP,
	}

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question from the command line",
		Args:  cobra.ExactArgs(1),
		RunE:  runAsk,
	}
	askCmd.Flags().Bool("no-retrieval", false, "answer without handbook excerpts")

	root.AddCommand(serveCmd, mcpCmd, askCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildClient() (*assistant.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return assistant.New(cfg)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	client, err := assistant.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return httpapi.NewServer(client, client.Memory()).ListenAndServe(ctx, cfg.Server.Addr)
}

func runMCP(*cobra.Command, []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	return server.ServeStdio(assistant.NewMCPServer(client))
}

func runAsk(cmd *cobra.Command, args []string) error {
	client, err := buildClient()
	if err != nil {
		return err
	}
	noRetrieval, _ := cmd.Flags().GetBool("no-retrieval")

	result, err := client.Respond(context.Background(), uuid.NewString(), args[0], !noRetrieval)
	if err != nil {
		return err
	}
	fmt.Println(result.Reply)
	if len(result.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range result.Sources {
			fmt.Printf("  - %s\n", src)
		}
	}
	return nil
}
