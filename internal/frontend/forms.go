package frontend

import "strings"

const availableImageTag = "available_image"

// ContactForm is submitted from the contact page. Nothing of it is stored.
type ContactForm struct {
	FirstName string `form:"first_name" validate:"required,min=2,max=50"`
	LastName  string `form:"last_name" validate:"required,min=2,max=50"`
	Email     string `form:"email" validate:"required,email"`
	Message   string `form:"message" validate:"required,min=10,max=1000"`
}

func (f *ContactForm) normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)
}

// ProjectForm is submitted from the add-project page.
type ProjectForm struct {
	Title         string `form:"title" validate:"required,min=2,max=200"`
	Description   string `form:"description" validate:"required,min=10,max=2000"`
	ImageFilename string `form:"image_filename" validate:"required,available_image"`
}

func (f *ProjectForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.ImageFilename = strings.TrimSpace(f.ImageFilename)
}
