// Package testutil provides in-memory implementations of the service store
// interfaces for tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-admin-backend/database"
	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
)

// DB is an in-memory relational store shared by the Projects, Types,
// Technologies and Links views. Errors injects a failure for an operation
// name such as "projects.add" or "links.set".
type DB struct {
	mu           sync.Mutex
	projects     map[uint]models.Project
	types        map[uint]models.Type
	technologies map[uint]models.Technology
	links        map[uint]map[uint]bool
	lastID       uint
	clock        time.Time

	Errors map[string]error
	// LinkWrites records every write issued against the join table.
	LinkWrites []string
	// LinkSyncs records what each SetLinks call added and removed.
	LinkSyncs []LinkSync
}

// LinkSync is the reconciliation applied by one SetLinks call.
type LinkSync struct {
	ProjectID uint
	Added     []uint
	Removed   []uint
}

func NewDB() *DB {
	return &DB{
		projects:     map[uint]models.Project{},
		types:        map[uint]models.Type{},
		technologies: map[uint]models.Technology{},
		links:        map[uint]map[uint]bool{},
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Errors:       map[string]error{},
	}
}

func (db *DB) Projects() *Projects         { return &Projects{db} }
func (db *DB) Types() *Types               { return &Types{db} }
func (db *DB) Technologies() *Technologies { return &Technologies{db} }
func (db *DB) Links() *Links               { return &Links{db} }

func (db *DB) nextID() uint {
	db.lastID++
	return db.lastID
}

func (db *DB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *DB) fail(op string) error {
	return db.Errors[op]
}

// AddType inserts a type row.
func (db *DB) AddType(label string) models.Type {
	db.mu.Lock()
	defer db.mu.Unlock()
	t := models.Type{ID: db.nextID(), Label: label}
	db.types[t.ID] = t
	return t
}

// AddTechnology inserts a technology row.
func (db *DB) AddTechnology(label, color string) models.Technology {
	db.mu.Lock()
	defer db.mu.Unlock()
	t := models.Technology{ID: db.nextID(), Label: label, Color: color}
	db.technologies[t.ID] = t
	return t
}

// Link adds join rows directly.
func (db *DB) Link(projectID uint, technologyIDs ...uint) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.linkLocked(projectID, technologyIDs)
}

// LinkSet returns the technology ids linked to a project, ascending.
func (db *DB) LinkSet(projectID uint) []uint {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.linkedLocked(projectID)
}

// LinkRows counts every join row in the store.
func (db *DB) LinkRows() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, set := range db.links {
		n += len(set)
	}
	return n
}

// Project returns the stored row without relations.
func (db *DB) Project(id uint) (models.Project, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.projects[id]
	return p, ok
}

func (db *DB) ProjectCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.projects)
}

func (db *DB) linkLocked(projectID uint, technologyIDs []uint) {
	set, ok := db.links[projectID]
	if !ok {
		set = map[uint]bool{}
		db.links[projectID] = set
	}
	for _, id := range technologyIDs {
		set[id] = true
	}
}

func (db *DB) linkedLocked(projectID uint) []uint {
	ids := make([]uint, 0, len(db.links[projectID]))
	for id := range db.links[projectID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (db *DB) titleTakenLocked(title string, exceptID uint) bool {
	for id, p := range db.projects {
		if id != exceptID && p.Title == title {
			return true
		}
	}
	return false
}

var errDuplicateTitle = errors.New(`duplicate key value violates unique constraint "projects_title_key"`)

type Projects struct{ db *DB }

func (r *Projects) FindAll(context.Context) ([]*models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("projects.findAll"); err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}

	out := make([]*models.Project, 0, len(r.db.projects))
	for _, p := range r.db.projects {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *Projects) FindByID(_ context.Context, id uint) (*models.Project, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.projects[id]
	if !ok {
		return nil, errs.NewNotFound("project")
	}
	if p.TypeID != nil {
		if t, ok := r.db.types[*p.TypeID]; ok {
			p.Type = &t
		}
	}
	for _, techID := range r.db.linkedLocked(id) {
		p.Technologies = append(p.Technologies, r.db.technologies[techID])
	}
	return &p, nil
}

func (r *Projects) TitleTaken(_ context.Context, title string, exceptID uint) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.titleTakenLocked(title, exceptID), nil
}

func (r *Projects) Add(_ context.Context, project *models.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("projects.add"); err != nil {
		return errs.NewDatabaseError("create", "project", err)
	}
	if r.db.titleTakenLocked(project.Title, 0) {
		return errs.NewDatabaseError("create", "project", errDuplicateTitle)
	}

	project.ID = r.db.nextID()
	project.CreatedAt = r.db.tick()
	project.UpdatedAt = project.CreatedAt
	row := *project
	row.Type, row.Technologies = nil, nil
	r.db.projects[project.ID] = row
	return nil
}

func (r *Projects) Update(_ context.Context, project *models.Project) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("projects.update"); err != nil {
		return errs.NewDatabaseError("update", "project", err)
	}
	if r.db.titleTakenLocked(project.Title, project.ID) {
		return errs.NewDatabaseError("update", "project", errDuplicateTitle)
	}

	project.UpdatedAt = r.db.tick()
	row := *project
	row.Type, row.Technologies = nil, nil
	r.db.projects[project.ID] = row
	return nil
}

func (r *Projects) Delete(_ context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("projects.delete"); err != nil {
		return errs.NewDatabaseError("delete", "project", err)
	}
	delete(r.db.projects, id)
	return nil
}

type Types struct{ db *DB }

func (r *Types) FindAll(context.Context) ([]*models.Type, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Type, 0, len(r.db.types))
	for _, t := range r.db.types {
		t := t
		out = append(out, &t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *Types) Exists(_ context.Context, id uint) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	_, ok := r.db.types[id]
	return ok, nil
}

type Technologies struct{ db *DB }

func (r *Technologies) FindAllLabels(context.Context) ([]*models.Technology, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*models.Technology, 0, len(r.db.technologies))
	for _, t := range r.db.technologies {
		out = append(out, &models.Technology{ID: t.ID, Label: t.Label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Technologies) ExistingIDs(_ context.Context, ids []uint) ([]uint, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var found []uint
	for _, id := range ids {
		if _, ok := r.db.technologies[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

func (r *Technologies) Add(_ context.Context, technology *models.Technology) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	technology.ID = r.db.nextID()
	r.db.technologies[technology.ID] = *technology
	return nil
}

type Links struct{ db *DB }

func (r *Links) LinkedIDs(_ context.Context, projectID uint) ([]uint, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.linkedLocked(projectID), nil
}

func (r *Links) Attach(_ context.Context, projectID uint, technologyIDs []uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.LinkWrites = append(r.db.LinkWrites, "attach")
	r.db.linkLocked(projectID, technologyIDs)
	return nil
}

func (r *Links) SetLinks(_ context.Context, projectID uint, technologyIDs []uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if err := r.db.fail("links.set"); err != nil {
		return errs.NewDatabaseError("sync", "project technologies", err)
	}
	r.db.LinkWrites = append(r.db.LinkWrites, "set")

	add, remove := database.DiffLinks(r.db.linkedLocked(projectID), technologyIDs)
	for _, id := range remove {
		delete(r.db.links[projectID], id)
	}
	r.db.linkLocked(projectID, add)
	r.db.LinkSyncs = append(r.db.LinkSyncs, LinkSync{ProjectID: projectID, Added: add, Removed: remove})
	return nil
}

func (r *Links) RemoveAllLinks(_ context.Context, projectID uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.LinkWrites = append(r.db.LinkWrites, "removeAll")
	delete(r.db.links, projectID)
	return nil
}
