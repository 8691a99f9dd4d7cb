package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nklarmann/replyagent/internal/core/domain"
	"github.com/nklarmann/replyagent/internal/core/ports/driving"
)

func TestProfileBuild_AggregatesAuthoredEmails(t *testing.T) {
	corpus := t.TempDir()
	writeCorpusFile(t, corpus, "a.md", "mail-1", "Noah Klarmann <noah@example.edu>",
		"Hallo zusammen,\n\nkannst du die Klausur-Unterlagen prüfen?\n\nViele Grüße,\nNoah")
	writeCorpusFile(t, corpus, "b.md", "mail-2", "student@example.com",
		"Sehr geehrter Herr Professor,\n\nich habe eine Frage zur Klausur.")

	outPath := filepath.Join(t.TempDir(), "style_profile.json")
	svc := NewProfileService(outPath)

	doc, err := svc.Build(context.Background(), driving.ProfileBuildOptions{CorpusDir: corpus})
	require.NoError(t, err)

	// Only the authored email counts.
	assert.Equal(t, 1, doc.EmailSampleSize)
	require.Contains(t, doc.Categories, domain.CategoryStudents)
	profile := doc.Categories[domain.CategoryStudents]
	assert.Equal(t, 1, profile.TotalEmails)
	assert.NotEmpty(t, doc.GeneratedAt)
}

func TestProfileBuild_WritesDocument(t *testing.T) {
	corpus := t.TempDir()
	writeCorpusFile(t, corpus, "a.md", "mail-1", "noah.klarmann@example.edu", "Hallo,\n\nkurze Info.\n\nViele Grüße,\nNoah")

	outPath := filepath.Join(t.TempDir(), "profiles", "style_profile.json")
	svc := NewProfileService(outPath)

	built, err := svc.Build(context.Background(), driving.ProfileBuildOptions{CorpusDir: corpus})
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var onDisk domain.StyleProfileDocument
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, built.EmailSampleSize, onDisk.EmailSampleSize)
	assert.Equal(t, built.GeneratedAt, onDisk.GeneratedAt)

	loaded, err := LoadProfile(outPath)
	require.NoError(t, err)
	assert.Equal(t, onDisk.EmailSampleSize, loaded.EmailSampleSize)
}

func TestProfileBuild_Limit(t *testing.T) {
	corpus := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		writeCorpusFile(t, corpus, name, "mail-"+name, "noah.klarmann@example.edu", "Hallo,\n\nInhalt.\n\nViele Grüße")
	}

	svc := NewProfileService(filepath.Join(t.TempDir(), "style_profile.json"))

	doc, err := svc.Build(context.Background(), driving.ProfileBuildOptions{CorpusDir: corpus, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.EmailSampleSize)
}

func TestProfileBuild_MissingCorpusDir(t *testing.T) {
	svc := NewProfileService(filepath.Join(t.TempDir(), "style_profile.json"))

	_, err := svc.Build(context.Background(), driving.ProfileBuildOptions{CorpusDir: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadProfile_NotFound(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
