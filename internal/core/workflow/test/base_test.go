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

// Package workflow_test contains tests for the pipeline orchestration. This
// file provides the shared setup: it points the configuration loader at the
// test configuration and holds the telemetry handles used across the test
// files. The hosted generators are replaced with in-memory fakes throughout,
// so the suite runs without API keys, ffmpeg, or network access.
package workflow_test

import (
	"os"
	"testing"

	"github.com/datdonq/Education-Music/internal/cloud"
	test "github.com/datdonq/Education-Music/internal/testutil"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const tName = "github.com/datdonq/Education-Music/tests/workflow"

// Shared handles for the test files in this package.
var (
	logger = otelslog.NewLogger(tName)
	config *cloud.Config
)

// TestMain sets up the test environment before any test in this package
// runs.
func TestMain(m *testing.M) {
	if err := test.SetupOS(); err != nil {
		logger.Error("failed to set up test environment", "error", err)
		os.Exit(1)
	}
	config = test.GetConfig()
	os.Exit(m.Run())
}
