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

// Package model defines the core data structures for the video pipeline.
// This file provides factory functions for hardcoded example instances used
// for few-shot prompting. Embedding a well-formed example of the expected
// JSON output in the script prompt makes the model's responses far more
// consistent and parsable.
package model

// GetExampleScript creates a sample two-scene ScriptDocument. It is
// marshaled into the script prompt as a few-shot example so the model
// returns the exact structure the parser expects.
func GetExampleScript() *ScriptDocument {
	return &ScriptDocument{
		Scenes: []*SceneSpec{
			{
				Script:      "Hello friends! Today we will learn the letter A together.",
				PromptImage: "A cheerful cartoon fox standing in a bright classroom, waving at the camera, colorful alphabet posters on the wall, 16:9, kid-friendly animation style.",
				PromptVideo: "The cartoon fox is waving and smiling while the camera slowly zooms in, soft daylight, vivid colors, gentle motion.",
				MainContent: "A is the first letter of the alphabet",
			},
			{
				Script:      "Great job! See you next time, goodbye!",
				PromptImage: "The same cartoon fox holding a big golden star, confetti falling, bright classroom background, 16:9, kid-friendly animation style.",
				PromptVideo: "The cartoon fox lifts the golden star above its head while confetti drifts down, slight camera pan to the right.",
				MainContent: "Practice makes perfect",
			},
		},
		MusicPrompt: "Cheerful kids pop instrumental, 110 BPM, C major, ukulele, glockenspiel and light percussion, bright and playful, no vocals.",
	}
}
