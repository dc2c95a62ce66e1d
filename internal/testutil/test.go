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

// Package test provides utility functions and mock data for the test
// suite: loading the test configuration, sample script JSON, and helpers
// for fabricating on-disk artifacts.
package test

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/datdonq/Education-Music/internal/cloud"
)

// StateManager caches the application configuration across tests so the
// TOML files are only parsed once per test run.
type StateManager struct {
	config *cloud.Config
}

var state = &StateManager{}

// HandleErr fails the test when err is non-nil.
func HandleErr(err error, t *testing.T) {
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// GetTestScriptText returns a well-formed two-scene script JSON payload in
// the shape the script model returns, used to test parsing and the
// downstream pipeline without a live model.
func GetTestScriptText() string {
	return `{
  "scence_script": [
    {
      "script": "Xin chào các bạn! Hôm nay chúng ta sẽ học bảng chữ cái nhé!",
      "prompt_image": "A cheerful cartoon fox teacher standing in front of a colorful classroom chalkboard, bright morning light",
      "prompt_video": "The fox teacher waves hello and smiles warmly, gentle camera push-in, classroom background",
      "main_content": "Chào các bạn!"
    },
    {
      "script": "Chữ A là chữ cái đầu tiên. A như trong từ Áo!",
      "prompt_image": "The same cartoon fox teacher pointing at a large letter A on the chalkboard, apple illustration beside it",
      "prompt_video": "The fox teacher points at the letter A while an apple bounces playfully next to the board",
      "main_content": "Chữ A - Áo"
    }
  ],
  "music_prompt": "A cheerful, gentle children's educational song with xylophone and soft ukulele, upbeat but calm"
}`
}

// SetupOS points the configuration loader at the test configuration files
// under configs/ with the "test" runtime overlay.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	return os.Setenv(cloud.EnvConfigRuntime, "test")
}

// GetConfig is a singleton accessor for the test configuration.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment for test: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// WriteTestArtifact creates a small non-empty file under dir and returns
// its path. Tests use it to stand in for generated media files.
func WriteTestArtifact(t *testing.T, dir string, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("test artifact"), 0o644); err != nil {
		t.Fatalf("failed to write test artifact %s: %v", path, err)
	}
	return path
}
