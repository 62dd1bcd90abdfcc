package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jo-hoe/goportfolio/internal/core"
)

func getConfigPath() string {
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return filepath.Join(cwd, "config.yaml")
}

func main() {
	configPath := getConfigPath()
	config, err := core.LoadConfig(configPath)
	if err != nil {
		slog.Error("failed to load config", "path", configPath, "error", err)
		os.Exit(1)
	}
	setupLogging(config.LogLevel)

	if err := run(context.Background(), config); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

// run stores the sample projects and logs the resulting table.
func run(ctx context.Context, config *core.ServiceConfig) error {
	coreService, err := core.NewCoreService(config)
	if err != nil {
		return fmt.Errorf("failed to initialize core service: %w", err)
	}
	defer func() {
		if err := coreService.Close(); err != nil {
			slog.Error("core service close error", "error", err)
		}
	}()

	slog.Info("initializing database with sample data")
	added, err := coreService.SeedSampleProjects(ctx)
	if err != nil {
		return err
	}

	slog.Info("all projects in database", "added", added)
	for _, project := range coreService.GetAllProjects(ctx) {
		slog.Info("project", "id", project.ID, "title", project.Title, "image", project.ImageFilename)
	}
	return nil
}

func setupLogging(level string) {
	logLevel, err := core.ParseLogLevel(level)
	if err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

