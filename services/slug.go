package services

import "github.com/gosimple/slug"

// Slugify derives the URL slug of a project title: lowercase ASCII words
// joined by single hyphens.
func Slugify(title string) string {
	return slug.Make(title)
}
