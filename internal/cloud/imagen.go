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

// Seed image generation with Gemini. Each scene starts from a still frame
// rendered from the scene's image prompt plus the uploaded reference
// character image, which keeps the main character consistent across scenes.
package cloud

import (
	"context"
	"os"

	"github.com/datdonq/Education-Music/internal/core/model"
	"github.com/h2non/filetype"
	"google.golang.org/genai"
)

// ImageGenerator renders scene seed images through a rate-limited Gemini
// image model.
type ImageGenerator struct {
	Model *QuotaAwareGenerativeAIModel
}

// NewImageGenerator wraps a quota-aware image model.
func NewImageGenerator(m *QuotaAwareGenerativeAIModel) *ImageGenerator {
	return &ImageGenerator{Model: m}
}

// Generate renders a seed image from the prompt and the reference image at
// refImagePath, writing the result to dest. The reference image rides in
// the prompt as inline data so the model can match the character design.
func (g *ImageGenerator) Generate(ctx context.Context, prompt string, refImagePath string, dest string) error {
	parts := []*genai.Part{{Text: prompt}}
	if refImagePath != "" {
		data, err := os.ReadFile(refImagePath)
		if err != nil {
			return &model.AssetGenerationError{Stage: model.StageImage, Reason: "could not read reference image", Err: err}
		}
		mime := "image/png"
		if kind, kerr := filetype.Match(data); kerr == nil && kind.MIME.Value != "" {
			mime = kind.MIME.Value
		}
		parts = append(parts, NewInlineImagePart(data, mime))
	}
	content := []*genai.Content{{Parts: parts, Role: genai.RoleUser}}

	resp, err := g.Model.GenerateContent(ctx, content)
	if err != nil {
		return &model.AssetGenerationError{Stage: model.StageImage, Reason: "generation failed", Err: err}
	}

	imageBytes := firstInlineImage(resp)
	if len(imageBytes) == 0 {
		return &model.AssetGenerationError{Stage: model.StageImage, Reason: "model returned no image data"}
	}
	if err := os.WriteFile(dest, imageBytes, 0o644); err != nil {
		return &model.AssetGenerationError{Stage: model.StageImage, Reason: "could not write image", Err: err}
	}
	return nil
}

// firstInlineImage returns the first inline image payload in a response.
func firstInlineImage(resp *genai.GenerateContentResponse) []byte {
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
