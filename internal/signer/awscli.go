// Package signer produces time-limited signed URLs for privately stored
// source files.
package signer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// AWSCLI signs S3 URLs by shelling out to `aws s3 presign`. The signed
// URL is read from stdout.
type AWSCLI struct {
	// Path to the aws executable. Defaults to "aws" (PATH lookup).
	Path string

	Profile   string
	Region    string
	ExpirySec int

	logger *slog.Logger
}

func NewAWSCLI(profile, region string, expirySec int, logger *slog.Logger) *AWSCLI {
	return &AWSCLI{
		Profile:   profile,
		Region:    region,
		ExpirySec: expirySec,
		logger:    logger.With("component", "signer"),
	}
}

// Sign invokes the AWS CLI synchronously and returns the signed URL.
func (s *AWSCLI) Sign(ctx context.Context, sourceURL string) (string, error) {
	name := s.Path
	if strings.TrimSpace(name) == "" {
		name = "aws"
	}

	args := []string{
		"s3", "presign", sourceURL,
		"--profile", s.Profile,
		"--expires-in", strconv.Itoa(s.ExpirySec),
		"--region", s.Region,
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		s.logger.Warn("presign command failed",
			"url", sourceURL,
			"stderr", strings.TrimSpace(errBuf.String()),
			"error", err,
		)
		return "", fmt.Errorf("aws s3 presign: %w", err)
	}

	signed := strings.TrimSpace(outBuf.String())
	if signed == "" {
		return "", fmt.Errorf("aws s3 presign produced no output")
	}
	return signed, nil
}
