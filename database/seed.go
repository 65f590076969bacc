package database

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-admin-backend/models"
)

// DefaultTechnologies are the technology rows every installation starts with.
var DefaultTechnologies = []models.Technology{
	{Label: "HTML", Color: "#ff0000"},
	{Label: "CSS", Color: "#0000ff"},
	{Label: "JAVASCRIPT", Color: "#EFD81D"},
	{Label: "VUE", Color: "#00ff00"},
	{Label: "BOOTSTRAP", Color: "#7300FF"},
	{Label: "SASS", Color: "#EE63B4"},
	{Label: "PHP", Color: "#007BFF"},
	{Label: "LARAVEL", Color: "#7E0707"},
}

type technologyAdder interface {
	Add(ctx context.Context, technology *models.Technology) error
}

// TechnologySeeder inserts DefaultTechnologies in order. It does not check
// for existing rows, so running it twice duplicates them.
type TechnologySeeder struct {
	technologies technologyAdder
}

func NewTechnologySeeder(technologies technologyAdder) TechnologySeeder {
	return TechnologySeeder{technologies: technologies}
}

func (s TechnologySeeder) Run(ctx context.Context) error {
	for _, tech := range DefaultTechnologies {
		technology := models.Technology{Label: tech.Label, Color: tech.Color}
		if err := s.technologies.Add(ctx, &technology); err != nil {
			return err
		}
	}
	log.Info().Int("count", len(DefaultTechnologies)).Msg("Seeded technologies")
	return nil
}
