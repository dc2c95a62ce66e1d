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

package main

import (
	"context"
	"log"
	"os"

	"github.com/datdonq/Education-Music/internal/cloud"
	"github.com/datdonq/Education-Music/internal/core/services"
	"github.com/datdonq/Education-Music/internal/core/workflow"
	"github.com/datdonq/Education-Music/internal/media"
	"github.com/joho/godotenv"
)

// pipelineRunner is the slice of the orchestrator the HTTP handlers use.
// Handler tests substitute a stub.
type pipelineRunner interface {
	Run(ctx context.Context, summary string, language string, refImage string, workDir string, outputPath string) (string, error)
}

type StateManager struct {
	config       *cloud.Config
	cloud        *cloud.ServiceClients
	videoService *services.VideoService
	pipeline     pipelineRunner
}

var state = &StateManager{}

func SetupOS() (err error) {
	// .env holds the API keys locally; missing file is fine in deployments
	// that inject real environment variables.
	_ = godotenv.Load()

	if os.Getenv(cloud.EnvConfigFilePrefix) == "" {
		if err := os.Setenv(cloud.EnvConfigFilePrefix, "configs"); err != nil {
			return err
		}
	}
	if os.Getenv(cloud.EnvConfigRuntime) == "" {
		return os.Setenv(cloud.EnvConfigRuntime, "local")
	}
	return nil
}

func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState wires the full dependency graph: external service clients, the
// on-disk video service, the per-scene task, and the orchestrator.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	state.videoService = services.NewVideoService(config.Application.OutputDir)
	if err := state.videoService.EnsureDirs(); err != nil {
		panic(err)
	}

	assembler := media.NewAssembler(config.Application.FFmpegPath, config.Application.FFprobePath)

	scriptService, err := workflow.NewGeminiScriptService(config, cloudClients.AgentModels[cloud.ModelScriptWriter])
	if err != nil {
		panic(err)
	}

	sceneTask := workflow.NewSceneTask(
		config.PromptTemplates.Image,
		config.Application.KeepIntermediates,
		cloudClients.ImageGenerator,
		cloudClients.VideoGenerator,
		cloudClients.SpeechGenerator,
		assembler,
	)

	state.pipeline = workflow.NewVideoPipeline(
		scriptService,
		sceneTask,
		cloudClients.MusicGenerator,
		assembler,
		config.Application.ThreadPoolSize,
		config.Application.ContinueOnSceneFailure,
	)
}
