package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModelFields(t *testing.T) {
	fields, err := getModelFields(Project{})
	require.NoError(t, err)
	assert.Contains(t, fields, "gallery_paths")
	assert.Contains(t, fields, "github_url")
	assert.Contains(t, fields, "created_at")
	assert.NotContains(t, fields, "technologies")

	fields, err = getModelFields(ProjectTechnology{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"project_id", "technology_id"}, fields)
}

func TestFindColumnMismatches(t *testing.T) {
	mismatches := findColumnMismatches(
		[]string{"id", "name", "legacy_slug", "image_path"},
		[]string{"id", "name", "image_path", "created_at"},
	)
	assert.Equal(t, []string{"legacy_slug"}, mismatches)

	assert.Empty(t, findColumnMismatches([]string{"id"}, []string{"id"}))
}

func TestTableModelsCoverEveryMigratedModel(t *testing.T) {
	assert.Len(t, tableModels(), len(All()))
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("mobile").Valid())
	assert.False(t, Category("").Valid())
}
