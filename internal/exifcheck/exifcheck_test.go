package exifcheck

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/openmined/flickrsync/internal/photo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tiffWithDateTaken builds a little-endian TIFF blob whose Exif sub-IFD holds
// a single DateTimeOriginal entry.
func tiffWithDateTaken(date string) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	w := func(v any) { _ = binary.Write(&buf, le, v) }

	// header
	buf.WriteString("II")
	w(uint16(42))
	w(uint32(8))

	// IFD0: one entry pointing at the Exif IFD at offset 26
	w(uint16(1))
	w(uint16(0x8769))
	w(uint16(4))
	w(uint32(1))
	w(uint32(26))
	w(uint32(0))

	// Exif IFD: DateTimeOriginal, ASCII, value at offset 44
	value := append([]byte(date), 0)
	w(uint16(1))
	w(uint16(0x9003))
	w(uint16(2))
	w(uint32(len(value)))
	w(uint32(44))
	w(uint32(0))

	buf.Write(value)
	return buf.Bytes()
}

func TestHasDateTaken(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/dated.jpg", tiffWithDateTaken("2020:01:01 00:00:00"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/plain.png", []byte("\x89PNG\r\n\x1a\n not really"), 0o644))

	c := NewChecker(fs)
	assert.True(t, c.HasDateTaken("/p/dated.jpg"))
	assert.False(t, c.HasDateTaken("/p/plain.png"))
	assert.False(t, c.HasDateTaken("/p/missing.jpg"))
}

func TestCheckReportsSortedProblematicPaths(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/ok.jpg", tiffWithDateTaken("2019:07:04 12:30:00"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/z.jpg", []byte("no exif"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/a.gif", []byte("GIF89a"), 0o644))

	inv := photo.Inventory{
		"ok": {ID: "/p/ok.jpg"},
		"z":  {ID: "/p/z.jpg"},
		"a":  {ID: "/p/a.gif"},
	}

	assert.Equal(t, []string{"/p/a.gif", "/p/z.jpg"}, NewChecker(fs).Check(inv))
}

func TestCheckAllDated(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/ok.jpg", tiffWithDateTaken("2019:07:04 12:30:00"), 0o644))

	problematic := NewChecker(fs).Check(photo.Inventory{"ok": {ID: "/p/ok.jpg"}})
	assert.NotNil(t, problematic)
	assert.Empty(t, problematic)
}
