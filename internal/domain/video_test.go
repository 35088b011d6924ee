package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVideoURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		valid  bool
		reason string
	}{
		{"https mp4", "https://cdn.example.com/a.mp4", true, ""},
		{"http mov", "http://cdn.example.com/media/b.mov", true, ""},
		{"s3 mkv", "s3://bucket/path/to/c.mkv", true, ""},
		{"s3 avi nested", "s3://bucket/a/b/c/d.avi", true, ""},
		{"missing", "", false, "URL is not a string or is missing"},
		{"wrong extension", "https://cdn.example.com/a.wmv", false, "Provided URL is not a valid URL path or video format"},
		{"uppercase extension", "https://cdn.example.com/a.MP4", false, "Provided URL is not a valid URL path or video format"},
		{"no path", "https://cdn.example.com", false, "Provided URL is not a valid URL path or video format"},
		{"wrong scheme", "ftp://cdn.example.com/a.mp4", false, "Provided URL is not a valid URL path or video format"},
		{"no extension", "https://cdn.example.com/a", false, "Provided URL is not a valid URL path or video format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, reason := ValidateVideoURL(tt.url)
			assert.Equal(t, tt.valid, valid)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestValidVideoID(t *testing.T) {
	assert.True(t, ValidVideoID("123"))
	assert.True(t, ValidVideoID("0"))
	assert.False(t, ValidVideoID(""))
	assert.False(t, ValidVideoID("12a"))
	assert.False(t, ValidVideoID("12 3"))
	assert.False(t, ValidVideoID("-123"))
}
