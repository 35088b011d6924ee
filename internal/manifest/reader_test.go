package manifest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "video_src.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReader_ReadsRowsInOrder(t *testing.T) {
	path := writeManifest(t,
		"video_id,video_url,delivery_type\n"+
			"100,https://cdn.example.com/a.mp4,remote\n"+
			"200,s3://bucket/b.mov,local\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, row.Line)
	assert.Equal(t, "100", row.VideoID)
	assert.Equal(t, "https://cdn.example.com/a.mp4", row.VideoURL)
	assert.Equal(t, "remote", row.DeliveryType)

	row, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, row.Line)
	assert.Equal(t, "200", row.VideoID)
	assert.Equal(t, "local", row.DeliveryType)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_ColumnOrderIsHeaderDriven(t *testing.T) {
	path := writeManifest(t,
		"delivery_type,video_id,title,video_url\n"+
			"remote,100,Some Title,https://cdn.example.com/a.mp4\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "100", row.VideoID)
	assert.Equal(t, "https://cdn.example.com/a.mp4", row.VideoURL)
	assert.Equal(t, "remote", row.DeliveryType)
}

func TestReader_ShortRecordLeavesFieldsEmpty(t *testing.T) {
	path := writeManifest(t,
		"video_id,video_url,delivery_type\n"+
			"100\n")

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	row, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "100", row.VideoID)
	assert.Equal(t, "", row.VideoURL)
	assert.Equal(t, "", row.DeliveryType)
}

func TestOpen_MissingColumn(t *testing.T) {
	path := writeManifest(t, "video_id,video_url\n100,https://cdn.example.com/a.mp4\n")

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery_type")
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
