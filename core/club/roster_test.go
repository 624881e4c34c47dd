package club

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRoster(t *testing.T) {
	r, err := LoadRoster(filepath.Join("testdata", "roster.json"))
	require.NoError(t, err)
	require.Len(t, r.Teams, 3)

	// sorted by domain then name
	wantOrder := []string{"Content", "Design", "Astrophysics"}
	for i, want := range wantOrder {
		assert.Equal(t, want, r.Teams[i].Name)
	}

	// members sorted by name
	astro := r.Teams[2]
	require.Len(t, astro.Members, 2)
	assert.Equal(t, "Arjun Mehta", astro.Members[0].Name)
	assert.Equal(t, "Zara Iqbal", astro.Members[1].Name)

	domains := r.Domains()
	assert.Len(t, domains["Creative"], 2)
	assert.Len(t, domains["Research"], 1)
}

func TestLoadRoster_missingFile(t *testing.T) {
	_, err := LoadRoster(filepath.Join("testdata", "nope.json"))
	assert.Error(t, err)
}
