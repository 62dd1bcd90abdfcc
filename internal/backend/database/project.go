package database

import "time"

type Project struct {
	ID            int64     `db:"id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	ImageFilename string    `db:"image_filename"` // file name inside the image directory
	CreatedDate   time.Time `db:"created_date"`
	UpdatedDate   time.Time `db:"updated_date"`
}
