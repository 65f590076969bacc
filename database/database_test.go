package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-admin-backend/models"
)

func TestDiffLinks(t *testing.T) {
	add, remove := DiffLinks([]uint{1, 2}, []uint{2, 3})
	assert.Equal(t, []uint{3}, add)
	assert.Equal(t, []uint{1}, remove)

	add, remove = DiffLinks(nil, []uint{5, 4, 5})
	assert.Equal(t, []uint{4, 5}, add)
	assert.Empty(t, remove)

	add, remove = DiffLinks([]uint{3, 1}, nil)
	assert.Empty(t, add)
	assert.Equal(t, []uint{1, 3}, remove)

	add, remove = DiffLinks([]uint{1, 2}, []uint{2, 1})
	assert.Empty(t, add)
	assert.Empty(t, remove)
}

func TestJoinRowsDeduplicates(t *testing.T) {
	rows := joinRows(7, []uint{3, 1, 3})
	assert.Equal(t, []models.ProjectTechnology{
		{ProjectID: 7, TechnologyID: 3},
		{ProjectID: 7, TechnologyID: 1},
	}, rows)
	assert.Empty(t, joinRows(7, nil))
}

type recordingAdder struct {
	added []models.Technology
	err   error
}

func (r *recordingAdder) Add(_ context.Context, technology *models.Technology) error {
	if r.err != nil {
		return r.err
	}
	technology.ID = uint(len(r.added) + 1)
	r.added = append(r.added, *technology)
	return nil
}

func TestTechnologySeederInsertsFixedListInOrder(t *testing.T) {
	adder := &recordingAdder{}
	require.NoError(t, NewTechnologySeeder(adder).Run(context.Background()))

	require.Len(t, adder.added, 8)
	labels := make([]string, 0, len(adder.added))
	for _, tech := range adder.added {
		labels = append(labels, tech.Label)
	}
	assert.Equal(t, []string{"HTML", "CSS", "JAVASCRIPT", "VUE", "BOOTSTRAP", "SASS", "PHP", "LARAVEL"}, labels)
	assert.Equal(t, "#EFD81D", adder.added[2].Color)
	assert.Equal(t, "#7E0707", adder.added[7].Color)
	assert.Equal(t, uint(0), DefaultTechnologies[0].ID, "seeding must not mutate the defaults")
}

func TestTechnologySeederIsNotIdempotent(t *testing.T) {
	adder := &recordingAdder{}
	seeder := NewTechnologySeeder(adder)
	require.NoError(t, seeder.Run(context.Background()))
	require.NoError(t, seeder.Run(context.Background()))
	assert.Len(t, adder.added, 16)
}

func TestTechnologySeederStopsOnError(t *testing.T) {
	adder := &recordingAdder{err: errors.New("db down")}
	assert.EqualError(t, NewTechnologySeeder(adder).Run(context.Background()), "db down")
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches(
		[]string{"id", "title", "legacy_url", "slug", "views"},
		[]string{"id", "title", "slug"},
	)
	assert.Equal(t, []string{"legacy_url", "views"}, got)
	assert.Empty(t, findColumnMismatches([]string{"id"}, []string{"id", "label"}))
}
