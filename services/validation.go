package services

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/storage"
)

// ProjectInput is the submitted create/edit form.
type ProjectInput struct {
	Title   string        `json:"title" validate:"required"`
	Content string        `json:"content" validate:"required"`
	Image   *storage.File `json:"-" validate:"-"`
	TypeID  *uint         `json:"type_id,omitempty"`
	// HasTypeID marks type_id as submitted. On update an absent type_id
	// keeps the current type, a submitted empty one clears it.
	HasTypeID bool `json:"-"`
	// Technologies is only meaningful when HasTechnologies is set; an absent
	// field and an empty selection behave differently on update.
	Technologies    []uint `json:"technologies,omitempty"`
	HasTechnologies bool   `json:"-"`
}

// Validation messages keyed "<field>.<rule>".
var projectMessages = map[string]string{
	"title.required":   "il titolo è obbligatorio",
	"title.unique":     "esiste già un progetto %s",
	"content.required": "il progetto deve avere un contenuto",
	"image.image":      "immagine non valida",
	"type_id.exists":   "Tipo non valido",
	"technologies":     "tecnologia non valida",
}

// Accepted image types, matching the usual "image" upload rule.
var imageMIMEs = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/bmp",
	"image/svg+xml",
	"image/webp",
}

var validate = newValidator()

// newValidator reports fields under their form names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type fieldRule struct {
	field string
	check func(ctx context.Context, in *ProjectInput) (string, error)
}

// projectSchema enumerates the rules for one operation. exceptID is the
// project being edited (0 on create) and is excluded from the title check.
func (s *ProjectService) projectSchema(exceptID uint) []fieldRule {
	return []fieldRule{
		{field: "title", check: s.uniqueTitle(exceptID)},
		{field: "image", check: validImage},
		{field: "type_id", check: s.existingType},
		{field: "technologies", check: s.existingTechnologies},
	}
}

// validateProject runs the required-field tags then the schema rules and
// returns every violation at once. Nothing is written before it passes.
func (s *ProjectService) validateProject(ctx context.Context, in *ProjectInput, exceptID uint) error {
	verr := errs.NewValidationError()

	if err := validate.Struct(in); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), projectMessages[fe.Field()+"."+fe.Tag()])
		}
	}

	for _, rule := range s.projectSchema(exceptID) {
		if _, failed := verr.Fields[rule.field]; failed {
			continue
		}
		msg, err := rule.check(ctx, in)
		if err != nil {
			return err
		}
		if msg != "" {
			verr.Add(rule.field, msg)
		}
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

func (s *ProjectService) uniqueTitle(exceptID uint) func(context.Context, *ProjectInput) (string, error) {
	return func(ctx context.Context, in *ProjectInput) (string, error) {
		taken, err := s.projects.TitleTaken(ctx, in.Title, exceptID)
		if err != nil || !taken {
			return "", err
		}
		return fmt.Sprintf(projectMessages["title.unique"], in.Title), nil
	}
}

// validImage sniffs the upload and records the detected content type on it.
func validImage(_ context.Context, in *ProjectInput) (string, error) {
	if in.Image == nil {
		return "", nil
	}
	if in.Image.Body == nil || in.Image.Size == 0 {
		return projectMessages["image.image"], nil
	}

	if _, err := in.Image.Body.Seek(0, io.SeekStart); err != nil {
		return projectMessages["image.image"], nil
	}
	mt, err := mimetype.DetectReader(in.Image.Body)
	if err != nil {
		return projectMessages["image.image"], nil
	}
	if _, err := in.Image.Body.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	if !mimetype.EqualsAny(mt.String(), imageMIMEs...) {
		return projectMessages["image.image"], nil
	}
	in.Image.ContentType = mt.String()
	return "", nil
}

func (s *ProjectService) existingType(ctx context.Context, in *ProjectInput) (string, error) {
	if in.TypeID == nil {
		return "", nil
	}
	ok, err := s.types.Exists(ctx, *in.TypeID)
	if err != nil || ok {
		return "", err
	}
	return projectMessages["type_id.exists"], nil
}

func (s *ProjectService) existingTechnologies(ctx context.Context, in *ProjectInput) (string, error) {
	ids := uniqueIDs(in.Technologies)
	if len(ids) == 0 {
		return "", nil
	}
	found, err := s.technologies.ExistingIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	if len(uniqueIDs(found)) != len(ids) {
		return projectMessages["technologies"], nil
	}
	return "", nil
}

// uniqueIDs drops repeated ids, keeping first-seen order.
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
