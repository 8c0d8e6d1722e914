package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spevenexe/S25-NLP-project/internal/app"
	"github.com/spevenexe/S25-NLP-project/internal/config"
	"github.com/spevenexe/S25-NLP-project/internal/mcpTools"
	"github.com/spevenexe/S25-NLP-project/pkg/logger_i"
)

func main() {
	config.LoadEnvironment()
	// stdout carries the protocol
	logger_i.InitWithWriter(os.Stderr)
	logger := logger_i.NewLogger("mcp")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	quizApp, err := app.Build(ctx)
	if err != nil {
		logger.Error("Could not start services", "err", err)
		os.Exit(1)
	}
	quizApp.Start(ctx)
	defer quizApp.Close(context.WithoutCancel(ctx))

	server := mcpTools.NewServer(quizApp.Quiz, quizApp.Ingestor)
	logger.Info("MCP server running on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server stopped", "err", err)
		os.Exit(1)
	}
}
