package local

import (
	"testing"
	"time"

	"github.com/openmined/flickrsync/internal/photo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path string, modified time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte("x"), 0o644))
	require.NoError(t, fs.Chtimes(path, modified, modified))
}

func TestScannerEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/photos", 0o755))

	result, err := NewScanner(fs, "/photos").Scan()
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result.Inventory)
	assert.Empty(t, result.Collisions)
}

func TestScannerMissingRoot(t *testing.T) {
	fs := afero.NewMemMapFs()

	result, err := NewScanner(fs, "/does/not/exist").Scan()
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestScannerAllowedExtensions(t *testing.T) {
	fs := afero.NewMemMapFs()
	ts := time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC)
	writeFile(t, fs, "/photos/a.jpg", ts)
	writeFile(t, fs, "/photos/b.gif", ts)
	writeFile(t, fs, "/photos/c.png", ts)
	writeFile(t, fs, "/photos/d.JPG", ts)
	writeFile(t, fs, "/photos/e.jpeg", ts)
	writeFile(t, fs, "/photos/notes.txt", ts)
	writeFile(t, fs, "/photos/deep/nested/f.jpg", ts)

	result, err := NewScanner(fs, "/photos").Scan()
	require.NoError(t, err)

	assert.Len(t, result.Inventory, 4)
	for _, name := range []string{"a", "b", "c", "f"} {
		assert.Contains(t, result.Inventory, name)
	}
	assert.Equal(t, "/photos/deep/nested/f.jpg", result.Inventory["f"].ID)
	assert.True(t, result.Inventory["a"].Modified.Equal(ts))
	assert.Nil(t, result.Inventory["a"].Taken)
}

func TestScannerSkipsHiddenOriginals(t *testing.T) {
	fs := afero.NewMemMapFs()
	ts := time.Unix(100, 0)
	writeFile(t, fs, "/photos/trip/beach.jpg", ts)
	writeFile(t, fs, "/photos/trip/.picasaoriginals/beach.jpg", ts)
	writeFile(t, fs, "/photos/trip/.picasaoriginals/raw/only-original.jpg", ts)

	result, err := NewScanner(fs, "/photos").Scan()
	require.NoError(t, err)

	assert.Len(t, result.Inventory, 1)
	assert.Equal(t, "/photos/trip/beach.jpg", result.Inventory["beach"].ID)
	assert.Empty(t, result.Collisions)
}

func TestScannerCustomHiddenSegment(t *testing.T) {
	fs := afero.NewMemMapFs()
	ts := time.Unix(100, 0)
	writeFile(t, fs, "/photos/originals/a.jpg", ts)
	writeFile(t, fs, "/photos/.picasaoriginals/b.jpg", ts)

	result, err := NewScanner(fs, "/photos", WithHiddenSegment("originals")).Scan()
	require.NoError(t, err)

	// ".picasaoriginals" contains "originals" too
	assert.Empty(t, result.Inventory)
}

func TestScannerNameCollisionLastVisitedWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/photos/sub1/cat.jpg", time.Unix(100, 0))
	writeFile(t, fs, "/photos/sub2/cat.png", time.Unix(50, 0))

	result, err := NewScanner(fs, "/photos").Scan()
	require.NoError(t, err)

	assert.Len(t, result.Inventory, 1)
	assert.Equal(t, "/photos/sub2/cat.png", result.Inventory["cat"].ID)
	assert.True(t, result.Inventory["cat"].Modified.Equal(time.Unix(50, 0)))
	assert.Equal(t, []string{"/photos/sub1/cat.jpg", "/photos/sub2/cat.png"}, result.Collisions["cat"])
}

func TestScannerIgnoreFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	ts := time.Unix(100, 0)
	writeFile(t, fs, "/photos/keep.jpg", ts)
	writeFile(t, fs, "/photos/drafts/wip.jpg", ts)
	writeFile(t, fs, "/photos/screens/shot-1.png", ts)
	require.NoError(t, afero.WriteFile(fs, "/photos/"+IgnoreFileName, []byte("drafts/\nshot-*.png\n"), 0o644))

	ignore := NewIgnoreList(fs, "/photos")
	ignore.Load()

	result, err := NewScanner(fs, "/photos", WithIgnoreList(ignore)).Scan()
	require.NoError(t, err)

	assert.Len(t, result.Inventory, 1)
	assert.Equal(t, "/photos/keep.jpg", result.Inventory["keep"].ID)
	assert.Empty(t, result.Collisions)
}

func TestScannerNoBuiltinIgnoreRules(t *testing.T) {
	fs := afero.NewMemMapFs()
	ts := time.Unix(100, 0)
	writeFile(t, fs, "/photos/a.jpg", ts)
	writeFile(t, fs, "/photos/.thumbnails/e.jpg", ts)
	writeFile(t, fs, "/photos/@eaDir/f.jpg", ts)
	writeFile(t, fs, "/photos/.Trash-1000/g.jpg", ts)
	writeFile(t, fs, "/photos/.git/h.png", ts)

	ignore := NewIgnoreList(fs, "/photos")
	ignore.Load()
	assert.False(t, ignore.ShouldIgnore(".thumbnails/e.jpg"))

	result, err := NewScanner(fs, "/photos", WithIgnoreList(ignore)).Scan()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a", "e", "f", "g", "h"}, photo.Sorted(result.Inventory.Names()))
}

// The walk is lexical with files and directories interleaved, so a root
// file sorting after a directory wins over the file inside it.
func TestScannerCollisionFollowsLexicalOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/photos/cat.png", time.Unix(1, 0))
	writeFile(t, fs, "/photos/a/cat.jpg", time.Unix(2, 0))

	result, err := NewScanner(fs, "/photos").Scan()
	require.NoError(t, err)

	assert.Equal(t, "/photos/cat.png", result.Inventory["cat"].ID)
	assert.Equal(t, []string{"/photos/a/cat.jpg", "/photos/cat.png"}, result.Collisions["cat"])
}

func TestPhotoName(t *testing.T) {
	cases := []struct {
		file string
		name string
		ok   bool
	}{
		{"sunset.jpg", "sunset", true},
		{"my.holiday.png", "my.holiday", true},
		{"anim.gif", "anim", true},
		{"upper.JPG", "", false},
		{"raw.cr2", "", false},
		{"noext", "", false},
	}

	for _, tc := range cases {
		name, ok := photoName(tc.file)
		assert.Equal(t, tc.ok, ok, tc.file)
		assert.Equal(t, tc.name, name, tc.file)
	}
}
