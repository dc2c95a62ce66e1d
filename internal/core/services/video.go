// Copyright 2025 Education-Music Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package services holds the filesystem-facing service layer between the
// HTTP gateway and the pipeline: staging uploaded reference images,
// allocating per-run working directories, and mapping output files to
// their static URLs.
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

// VideoService manages the on-disk layout for pipeline runs.
type VideoService struct {
	root string
}

// NewVideoService creates the service rooted at outputDir, defaulting to
// "outputs".
func NewVideoService(outputDir string) *VideoService {
	if outputDir == "" {
		outputDir = "outputs"
	}
	return &VideoService{root: outputDir}
}

// Root returns the output root directory.
func (s *VideoService) Root() string { return s.root }

// UploadsDir returns the directory holding staged reference images.
func (s *VideoService) UploadsDir() string { return filepath.Join(s.root, "uploads") }

// VideosDir returns the directory holding finished videos.
func (s *VideoService) VideosDir() string { return filepath.Join(s.root, "videos") }

// EnsureDirs creates the working directory layout on demand.
func (s *VideoService) EnsureDirs() error {
	for _, dir := range []string{
		s.UploadsDir(),
		s.VideosDir(),
		filepath.Join(s.root, "images"),
		filepath.Join(s.root, "audio"),
		filepath.Join(s.root, "music"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create %s: %w", dir, err)
		}
	}
	return nil
}

// NewRunID allocates a unique identifier for one pipeline run. All of the
// run's artifacts derive their names from it, so concurrent runs never
// collide on disk.
func (s *VideoService) NewRunID() string {
	return uuid.NewString()
}

// WorkDirFor creates and returns the scratch directory for a run's
// intermediate artifacts.
func (s *VideoService) WorkDirFor(runID string) (string, error) {
	dir := filepath.Join(s.VideosDir(), runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create work dir: %w", err)
	}
	return dir, nil
}

// FinalVideoPath returns the path the run's finished video is written to.
func (s *VideoService) FinalVideoPath(runID string) string {
	return filepath.Join(s.VideosDir(), runID+".mp4")
}

// StageUpload saves an uploaded reference image into the uploads directory
// under a unique name, preserving the original extension. Extensionless
// filenames get one sniffed from the content, falling back to .png when the
// type cannot be determined.
func (s *VideoService) StageUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("could not open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	var head []byte
	if ext == "" {
		head = make([]byte, 261)
		n, err := io.ReadFull(src, head)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return "", fmt.Errorf("could not read upload: %w", err)
		}
		head = head[:n]
		ext = ".png"
		if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
			ext = "." + kind.Extension
		}
	}
	dest := filepath.Join(s.UploadsDir(), uuid.NewString()+ext)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("could not create staged file: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, io.MultiReader(bytes.NewReader(head), src)); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("could not write staged file: %w", err)
	}
	return dest, nil
}

// StaticURL maps an output file path to its URL under the static mount.
// Paths outside the output root return an empty string.
func (s *VideoService) StaticURL(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return "/static/" + filepath.ToSlash(rel)
}
