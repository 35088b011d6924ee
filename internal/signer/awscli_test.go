package signer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// writeStub writes an executable standing in for the aws CLI.
func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aws")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestSign_ReturnsTrimmedStdout(t *testing.T) {
	s := NewAWSCLI("media", "ap-southeast-2", 1800, testLogger())
	s.Path = writeStub(t, `echo "https://signed.example.com/a.mp4?sig=x"`)

	signed, err := s.Sign(context.Background(), "s3://bucket/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/a.mp4?sig=x", signed)
}

func TestSign_PassesArguments(t *testing.T) {
	s := NewAWSCLI("media", "ap-southeast-2", 1800, testLogger())
	s.Path = writeStub(t, `echo "$@"`)

	out, err := s.Sign(context.Background(), "s3://bucket/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, "s3 presign s3://bucket/a.mp4 --profile media --expires-in 1800 --region ap-southeast-2", out)
}

func TestSign_CommandFailure(t *testing.T) {
	s := NewAWSCLI("media", "ap-southeast-2", 1800, testLogger())
	s.Path = writeStub(t, `echo "An error occurred" >&2; exit 1`)

	_, err := s.Sign(context.Background(), "s3://bucket/a.mp4")
	assert.Error(t, err)
}

func TestSign_EmptyOutput(t *testing.T) {
	s := NewAWSCLI("media", "ap-southeast-2", 1800, testLogger())
	s.Path = writeStub(t, `exit 0`)

	_, err := s.Sign(context.Background(), "s3://bucket/a.mp4")
	assert.Error(t, err)
}
