package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
)

// ImageBucket is the storage namespace project images are written under.
const ImageBucket = "projects"

// ProjectService implements the admin operations on projects: validation,
// slug derivation, image lifecycle and technology link syncing.
type ProjectService struct {
	logger       zerolog.Logger
	projects     ProjectStore
	types        TypeStore
	technologies TechnologyStore
	links        LinkStore
	blobs        BlobStore
}

func NewProjectService(projects ProjectStore, types TypeStore, technologies TechnologyStore, links LinkStore, blobs BlobStore) *ProjectService {
	return &ProjectService{
		logger:       log.With().Str("serviceName", "projectService").Logger(),
		projects:     projects,
		types:        types,
		technologies: technologies,
		links:        links,
		blobs:        blobs,
	}
}

// CreateForm is the data behind the empty project form.
type CreateForm struct {
	Project      *models.Project      `json:"project"`
	Types        []*models.Type       `json:"types"`
	Technologies []*models.Technology `json:"technologies"`
}

// EditForm is the data behind the edit form, with the currently linked
// technology ids for pre-selection.
type EditForm struct {
	Project             *models.Project      `json:"project"`
	Types               []*models.Type       `json:"types"`
	Technologies        []*models.Technology `json:"technologies"`
	ProjectTechnologies []uint               `json:"project_technologies"`
}

// List returns every project, most recently updated first.
func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.projects.FindAll(ctx)
}

func (s *ProjectService) PrepareCreateForm(ctx context.Context) (*CreateForm, error) {
	types, err := s.types.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	technologies, err := s.technologies.FindAllLabels(ctx)
	if err != nil {
		return nil, err
	}
	return &CreateForm{Project: &models.Project{}, Types: types, Technologies: technologies}, nil
}

// Create validates the input, stores the image if one was uploaded, inserts
// the project and attaches the selected technologies.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	normalize(&in)
	if err := s.validateProject(ctx, &in, 0); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:   in.Title,
		Content: in.Content,
		Slug:    Slugify(in.Title),
		TypeID:  in.TypeID,
	}

	if in.Image != nil {
		path, err := s.blobs.Put(ctx, ImageBucket, *in.Image)
		if err != nil {
			return nil, errs.NewStorageError("store", ImageBucket, err)
		}
		project.Image = &path
	}

	if err := s.projects.Add(ctx, project); err != nil {
		if project.HasImage() {
			// the row was never written, so the blob has no owner
			if derr := s.blobs.Delete(ctx, *project.Image); derr != nil {
				s.logger.Error().Err(derr).Str("path", *project.Image).Msg("Failed to remove orphaned image")
			}
		}
		return nil, err
	}

	// An absent or empty selection creates no links.
	if ids := uniqueIDs(in.Technologies); len(ids) > 0 {
		if err := s.links.Attach(ctx, project.ID, ids); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Uint("projectID", project.ID).Str("slug", project.Slug).Msg("Project created")
	return project, nil
}

// Show returns one project or a NotFound error.
func (s *ProjectService) Show(ctx context.Context, id uint) (*models.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) PrepareEditForm(ctx context.Context, id uint) (*EditForm, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	types, err := s.types.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	technologies, err := s.technologies.FindAllLabels(ctx)
	if err != nil {
		return nil, err
	}
	linked, err := s.links.LinkedIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	if linked == nil {
		linked = []uint{}
	}

	return &EditForm{
		Project:             project,
		Types:               types,
		Technologies:        technologies,
		ProjectTechnologies: linked,
	}, nil
}

// Update overwrites the project's fields, replaces its image when a new one
// is uploaded and syncs its technologies:
//   - technologies present: the links become exactly that set
//   - technologies absent: every existing link is removed
func (s *ProjectService) Update(ctx context.Context, id uint, in ProjectInput) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	normalize(&in)
	if err := s.validateProject(ctx, &in, id); err != nil {
		return nil, err
	}

	project.Title = in.Title
	project.Content = in.Content
	project.Slug = Slugify(in.Title)
	if in.HasTypeID {
		project.TypeID = in.TypeID
		project.Type = nil
	}

	if in.Image != nil {
		// delete-then-put is not atomic: a failed put leaves the row
		// pointing at the removed blob until the next successful upload
		if project.HasImage() {
			if err := s.removeImage(ctx, *project.Image); err != nil {
				return nil, err
			}
		}
		path, err := s.blobs.Put(ctx, ImageBucket, *in.Image)
		if err != nil {
			return nil, errs.NewStorageError("store", ImageBucket, err)
		}
		project.Image = &path
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	if in.HasTechnologies {
		if err := s.links.SetLinks(ctx, id, uniqueIDs(in.Technologies)); err != nil {
			return nil, err
		}
	} else if err := s.detachAll(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("projectID", id).Str("slug", project.Slug).Msg("Project updated")
	return s.projects.FindByID(ctx, id)
}

// Destroy deletes the project's image, its technology links and finally
// the row. The deleted project is returned for the confirmation message.
func (s *ProjectService) Destroy(ctx context.Context, id uint) (*models.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if project.HasImage() {
		if err := s.removeImage(ctx, *project.Image); err != nil {
			return nil, err
		}
	}

	if err := s.detachAll(ctx, id); err != nil {
		return nil, err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("projectID", id).Str("title", project.Title).Msg("Project deleted")
	return project, nil
}

// removeImage deletes a stored image. A blob that is already gone is
// logged and skipped so the row can still be removed.
func (s *ProjectService) removeImage(ctx context.Context, path string) error {
	exists, err := s.blobs.Exists(ctx, path)
	if err != nil {
		return errs.NewStorageError("stat", path, err)
	}
	if !exists {
		s.logger.Warn().Str("path", path).Msg("Project image already missing from storage")
		return nil
	}
	if err := s.blobs.Delete(ctx, path); err != nil {
		return errs.NewStorageError("delete", path, err)
	}
	return nil
}

// detachAll removes every technology link, skipping the write when there
// are none.
func (s *ProjectService) detachAll(ctx context.Context, id uint) error {
	linked, err := s.links.LinkedIDs(ctx, id)
	if err != nil {
		return err
	}
	if len(linked) == 0 {
		return nil
	}
	return s.links.RemoveAllLinks(ctx, id)
}

func normalize(in *ProjectInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
}
