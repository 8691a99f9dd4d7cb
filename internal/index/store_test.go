package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeIndexFile(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "email_index.jsonl")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEnsureFresh_LoadsRecords(t *testing.T) {
	path := writeIndexFile(t,
		`{"id":"a","subject":"Alpha","category":"students","body":"Text A","embedding":[1,0]}`,
		`{"id":"b","subject":"Beta","category":"industry","body":"Text B","embedding":[0,1]}`,
	)

	store := NewStore(path)
	emails, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)
	require.Len(t, emails, 2)

	assert.Equal(t, "a", emails[0].ID)
	assert.Equal(t, 1.0, emails[0].Norm)
	assert.Equal(t, "b", emails[1].ID)
}

func TestEnsureFresh_SkipsMalformedLines(t *testing.T) {
	path := writeIndexFile(t,
		`{"id":"good","category":"students","body":"ok","embedding":[1]}`,
		`{not valid json`,
		`{"id":"also-good","category":"colleagues","body":"ok","embedding":[2]}`,
	)

	store := NewStore(path)
	emails, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "good", emails[0].ID)
	assert.Equal(t, "also-good", emails[1].ID)
}

func TestEnsureFresh_EmptyEmbeddingGetsUnitNorm(t *testing.T) {
	path := writeIndexFile(t,
		`{"id":"empty","category":"students","body":"ok","embedding":[]}`,
		`{"id":"missing","category":"students","body":"ok"}`,
	)

	store := NewStore(path)
	emails, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, 1.0, emails[0].Norm)
	assert.Equal(t, 1.0, emails[1].Norm)
}

func TestEnsureFresh_CachesUnchangedFile(t *testing.T) {
	path := writeIndexFile(t,
		`{"id":"a","category":"students","body":"ok","embedding":[1]}`,
	)

	store := NewStore(path)
	first, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)
	second, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)

	// Same cached snapshot instance, not a re-parse.
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	assert.Same(t, &first[0], &second[0])
}

func TestEnsureFresh_ReloadsOnTimestampChange(t *testing.T) {
	path := writeIndexFile(t,
		`{"id":"a","category":"students","body":"ok","embedding":[1]}`,
	)

	store := NewStore(path)
	first, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	content := `{"id":"a","category":"students","body":"ok","embedding":[1]}` + "\n" +
		`{"id":"b","category":"industry","body":"ok","embedding":[2]}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	// Force a visible mtime difference on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	second, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestEnsureFresh_MissingFileDegradesToEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope.jsonl"))

	emails, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestInvalidate_ForcesReload(t *testing.T) {
	path := writeIndexFile(t,
		`{"id":"a","category":"students","body":"ok","embedding":[1]}`,
	)

	store := NewStore(path)
	first, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, first)

	store.Invalidate()
	second, err := store.EnsureFresh(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, second)
	assert.NotSame(t, &first[0], &second[0])
}

func TestEnsureFresh_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore("irrelevant")
	_, err := store.EnsureFresh(ctx)
	assert.Error(t, err)
}
