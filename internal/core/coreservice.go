package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jo-hoe/goportfolio/internal/backend/database"
	"github.com/jo-hoe/goportfolio/internal/backend/imageprocessing"
)

// ErrImageNotFound is returned for file names outside the available image set.
var ErrImageNotFound = errors.New("image not found")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// CoreService is the project store used by the frontend. Storage errors are
// logged here and surface to callers only as empty, false or nil results.
type CoreService struct {
	config           *ServiceConfig
	databaseService  database.DatabaseService
	imageDirectory   string
	thumbnailInvoker *imageprocessing.CommandInvoker
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		return nil, err
	}
	service, err := NewCoreServiceWithDatabase(config, databaseService)
	if err != nil {
		_ = databaseService.Close()
		return nil, err
	}
	return service, nil
}

// NewCoreServiceWithDatabase builds the service around an existing database service.
func NewCoreServiceWithDatabase(config *ServiceConfig, databaseService database.DatabaseService) (*CoreService, error) {
	invoker, err := imageprocessing.NewCommandInvokerFromConfig(imageprocessing.DefaultRegistry, config.ThumbnailCommands)
	if err != nil {
		return nil, fmt.Errorf("failed to build thumbnail pipeline: %w", err)
	}

	imageDirectory := config.ImageDirectory
	if imageDirectory == "" {
		imageDirectory = filepath.Join(config.StaticDirectory, "images")
	}

	return &CoreService{
		config:           config,
		databaseService:  databaseService,
		imageDirectory:   imageDirectory,
		thumbnailInvoker: invoker,
	}, nil
}

func (service *CoreService) AddProject(ctx context.Context, title, description, imageFilename string) (int64, bool) {
	if isBlank(title) || isBlank(description) || isBlank(imageFilename) {
		slog.Warn("rejecting project with blank fields")
		return 0, false
	}

	id, err := service.databaseService.CreateProject(ctx, title, description, imageFilename)
	if err != nil {
		slog.Error("error adding project", "error", err)
		return 0, false
	}
	slog.Info("project added", "id", id)
	return id, true
}

func (service *CoreService) GetAllProjects(ctx context.Context) []*database.Project {
	projects, err := service.databaseService.GetAllProjects(ctx)
	if err != nil {
		slog.Error("error retrieving projects", "error", err)
		return []*database.Project{}
	}
	if projects == nil {
		return []*database.Project{}
	}
	return projects
}

func (service *CoreService) GetProjectByID(ctx context.Context, id int64) *database.Project {
	project, err := service.databaseService.GetProjectByID(ctx, id)
	if err != nil {
		slog.Error("error retrieving project", "id", id, "error", err)
		return nil
	}
	return project
}

func (service *CoreService) UpdateProject(ctx context.Context, id int64, title, description, imageFilename string) bool {
	if isBlank(title) || isBlank(description) || isBlank(imageFilename) {
		slog.Warn("rejecting project update with blank fields", "id", id)
		return false
	}

	updated, err := service.databaseService.UpdateProject(ctx, id, title, description, imageFilename)
	if err != nil {
		slog.Error("error updating project", "id", id, "error", err)
		return false
	}
	return updated
}

func (service *CoreService) DeleteProject(ctx context.Context, id int64) bool {
	deleted, err := service.databaseService.DeleteProject(ctx, id)
	if err != nil {
		slog.Error("error deleting project", "id", id, "error", err)
		return false
	}
	return deleted
}

// GetAvailableImages lists the image files currently present in the image directory.
func (service *CoreService) GetAvailableImages() []string {
	images := make([]string, 0)

	entries, err := os.ReadDir(service.imageDirectory)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Error("error reading image directory", "directory", service.imageDirectory, "error", err)
		}
		return images
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			images = append(images, entry.Name())
		}
	}
	sort.Strings(images)
	return images
}

func (service *CoreService) IsAvailableImage(filename string) bool {
	for _, image := range service.GetAvailableImages() {
		if image == filename {
			return true
		}
	}
	return false
}

// GetImageThumbnail runs an available image through the thumbnail pipeline.
func (service *CoreService) GetImageThumbnail(filename string) ([]byte, error) {
	if !service.IsAvailableImage(filename) {
		return nil, fmt.Errorf("%w: %s", ErrImageNotFound, filename)
	}

	data, err := os.ReadFile(filepath.Join(service.imageDirectory, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", filename, err)
	}

	thumbnail, err := service.thumbnailInvoker.Execute(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render thumbnail for %s: %w", filename, err)
	}
	return thumbnail, nil
}

func (service *CoreService) ImageDirectory() string {
	return service.imageDirectory
}

func (service *CoreService) Ping() bool {
	return service.databaseService.DoesDatabaseExist()
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Database.Type, config.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}
