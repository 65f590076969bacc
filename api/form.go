package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/services"
	"github.com/rpupo63/portfolio-admin-backend/storage"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling file parts to disk.
const multipartMemory = 8 << 20

// projectForm is a decoded create/edit submission. close releases any
// uploaded file.
type projectForm struct {
	input services.ProjectInput
	old   map[string]any
	close func()
}

// parseProjectForm reads a multipart or urlencoded project form. Ids that do
// not parse become 0 so the existence rules reject them with their own
// messages.
func parseProjectForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*projectForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errs.NewMaxBodySizeExceededError(maxBytes)
		}
		return nil, errs.NewMalformedPayloadError("form", err)
	}

	values := r.PostForm
	form := &projectForm{
		input: services.ProjectInput{
			Title:   values.Get("title"),
			Content: values.Get("content"),
		},
		old: map[string]any{
			"title":   values.Get("title"),
			"content": values.Get("content"),
		},
		close: func() {},
	}

	if _, ok := values["type_id"]; ok {
		form.input.HasTypeID = true
		// an empty type_id clears the type
		if raw := strings.TrimSpace(values.Get("type_id")); raw != "" {
			id := parseID(raw)
			form.input.TypeID = &id
			form.old["type_id"] = raw
		}
	}

	rawTechnologies, present := values["technologies"]
	if bracketed, ok := values["technologies[]"]; ok {
		rawTechnologies = append(rawTechnologies, bracketed...)
		present = true
	}
	if present {
		form.input.HasTechnologies = true
		form.input.Technologies = make([]uint, 0, len(rawTechnologies))
		for _, raw := range rawTechnologies {
			// blank entries are a submitted empty selection
			if strings.TrimSpace(raw) == "" {
				continue
			}
			form.input.Technologies = append(form.input.Technologies, parseID(raw))
		}
		form.old["technologies"] = rawTechnologies
	}

	if r.MultipartForm != nil {
		// an untouched file input still submits an empty, unnamed part
		if headers := r.MultipartForm.File["image"]; len(headers) > 0 && (headers[0].Filename != "" || headers[0].Size > 0) {
			file, err := openUpload(headers[0])
			if err != nil {
				r.MultipartForm.RemoveAll()
				return nil, errs.NewMalformedPayloadError("image", err)
			}
			form.input.Image = file
			form.close = func() {
				if closer, ok := file.Body.(multipart.File); ok {
					closer.Close()
				}
				r.MultipartForm.RemoveAll()
			}
		} else {
			form.close = func() { r.MultipartForm.RemoveAll() }
		}
	}

	return form, nil
}

func openUpload(header *multipart.FileHeader) (*storage.File, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	return &storage.File{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        f,
	}, nil
}

func parseID(raw string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// projectID reads the {project} route parameter. Anything that is not a
// positive integer cannot name a project.
func projectID(raw string) (uint, error) {
	id := parseID(raw)
	if id == 0 {
		return 0, errs.NewNotFound("project")
	}
	return id, nil
}
