package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputManagerRunDirs(t *testing.T) {
	om := NewOutputManager(t.TempDir())

	dir, err := om.CreateRunOutputDir("run-1")
	require.NoError(t, err)
	assert.DirExists(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "species_summary.csv"), []byte("a,b\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "survey_map.html"), []byte("<html>"), 0644))

	artifacts, err := om.ListRunArtifacts("run-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"species_summary.csv", "survey_map.html"}, artifacts)
}

func TestGetFileType(t *testing.T) {
	om := NewOutputManager("out")
	assert.Equal(t, "csv", om.GetFileType("species_summary.csv"))
	assert.Equal(t, "chart", om.GetFileType("elevation_by_species.png"))
	assert.Equal(t, "map", om.GetFileType("survey_map.html"))
	assert.Equal(t, "report", om.GetFileType("survey_report.md"))
}

func TestGetDownloadURL(t *testing.T) {
	om := NewOutputManager("out")
	assert.Equal(t, "/api/v1/download/run-1/survey_report.md", om.GetDownloadURL("run-1", "survey_report.md"))
}
