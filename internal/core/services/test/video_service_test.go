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

// Package services_test contains unit tests for the filesystem service
// layer: run directory allocation, upload staging, and the mapping from
// output files to static URLs.
package services_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/datdonq/Education-Music/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestEnsureDirsAndRunLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "outputs")
	svc := services.NewVideoService(root)
	assert.NoError(t, svc.EnsureDirs())

	for _, dir := range []string{svc.UploadsDir(), svc.VideosDir()} {
		info, err := os.Stat(dir)
		assert.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	runID := svc.NewRunID()
	assert.NotEmpty(t, runID)
	// Two runs never share an identifier.
	assert.NotEqual(t, runID, svc.NewRunID())

	workDir, err := svc.WorkDirFor(runID)
	assert.NoError(t, err)
	info, err := os.Stat(workDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())

	// The final video sits next to the run's work directory, named by run.
	assert.Equal(t, filepath.Join(svc.VideosDir(), runID+".mp4"), svc.FinalVideoPath(runID))
}

// TestStageUpload stages a multipart upload and checks the extension
// handling: filename extensions are preserved, extensionless uploads get
// one sniffed from the content, and unrecognizable content defaults to
// .png.
func TestStageUpload(t *testing.T) {
	svc := services.NewVideoService(t.TempDir())
	assert.NoError(t, svc.EnsureDirs())

	pngBytes := []byte("\x89PNG\r\n\x1a\nrest of the image")
	jpegBytes := []byte("\xff\xd8\xff\xe0rest of the image")

	for _, tc := range []struct {
		filename string
		content  []byte
		wantExt  string
	}{
		{"fox.jpeg", []byte("image bytes"), ".jpeg"},
		{"UPPER.PNG", []byte("image bytes"), ".png"},
		{"sniffed_png", pngBytes, ".png"},
		{"sniffed_jpeg", jpegBytes, ".jpg"},
		{"unrecognized", []byte("not an image"), ".png"},
	} {
		header := uploadHeader(t, tc.filename, tc.content)
		staged, err := svc.StageUpload(header)
		assert.NoError(t, err)
		assert.Equal(t, tc.wantExt, filepath.Ext(staged), tc.filename)

		// Sniffing must not eat any of the staged bytes.
		data, err := os.ReadFile(staged)
		assert.NoError(t, err)
		assert.Equal(t, tc.content, data, tc.filename)
	}
}

func TestStaticURL(t *testing.T) {
	svc := services.NewVideoService("outputs")

	assert.Equal(t, "/static/videos/run-1.mp4", svc.StaticURL(filepath.Join("outputs", "videos", "run-1.mp4")))
	// Paths outside the output root do not map to a URL.
	assert.Equal(t, "", svc.StaticURL(filepath.Join("somewhere", "else.mp4")))
}

// uploadHeader builds a real multipart.FileHeader by round-tripping a
// multipart body through the standard parser.
func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	assert.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}
