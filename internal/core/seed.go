package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
)

const defaultProjectImage = "default-project.jpg"

type sampleProject struct {
	title          string
	description    string
	preferredImage string
}

var sampleProjects = []sampleProject{
	{
		title:          "ITS CA1 - Information Technology Systems Project",
		description:    "A comprehensive Information Technology Systems project focusing on system analysis, design, and implementation. This project demonstrates understanding of IT infrastructure, system architecture, and technical problem-solving methodologies.",
		preferredImage: "api-screenshot.jpg",
	},
	{
		title:          "Team 20 - Helios Case Study",
		description:    "A collaborative case study project analyzing the Helios case, demonstrating team leadership, strategic analysis, and business problem-solving skills. This project showcases ability to work in teams and tackle complex business challenges.",
		preferredImage: "dashboard-screenshot.jpg",
	},
	{
		title:          "E-commerce Website Development",
		description:    "A full-stack e-commerce website built with modern web technologies, featuring user authentication, product catalog, shopping cart, and payment integration.",
		preferredImage: "ecommerce-screenshot.jpg",
	},
	{
		title:          "Personal Portfolio Website",
		description:    "A responsive personal portfolio website showcasing professional skills, projects, and achievements. Built with Go, HTML and CSS.",
		preferredImage: "website-screenshot.jpg",
	},
}

// sampleImage picks the preferred screenshot, then the i-th available image, then the placeholder.
func sampleImage(index int, preferred string, available []string) string {
	if slices.Contains(available, preferred) {
		return preferred
	}
	if index < len(available) {
		return available[index]
	}
	return defaultProjectImage
}

// SeedSampleProjects adds the sample projects and returns how many were stored.
func (service *CoreService) SeedSampleProjects(ctx context.Context) (int, error) {
	if err := os.MkdirAll(service.imageDirectory, 0755); err != nil {
		return 0, fmt.Errorf("failed to create image directory %s: %w", service.imageDirectory, err)
	}

	available := service.GetAvailableImages()
	slog.Info("available images", "images", available)

	added := 0
	for i, sample := range sampleProjects {
		image := sampleImage(i, sample.preferredImage, available)
		id, ok := service.AddProject(ctx, sample.title, sample.description, image)
		if !ok {
			slog.Error("failed to add sample project", "title", sample.title)
			continue
		}
		slog.Info("added sample project", "id", id, "title", sample.title, "image", image)
		added++
	}

	if added == 0 {
		return 0, fmt.Errorf("no sample project could be stored")
	}
	return added, nil
}
