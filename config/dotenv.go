// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from .env files.
//
// Search order (first found wins for each variable; godotenv never
// overwrites variables already set in the process environment):
//  1. Explicit paths, in order
//  2. .env in the current directory
//  3. .env in the home directory (~/.env)
//
// Idempotent and safe to call multiple times.
func LoadDotEnv(paths ...string) {
	for _, path := range paths {
		if path != "" {
			loadIfExists(path)
		}
	}
	loadIfExists(".env")
	if home, err := os.UserHomeDir(); err == nil {
		loadIfExists(filepath.Join(home, ".env"))
	}
}

func loadIfExists(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}
	if err := godotenv.Load(path); err != nil {
		slog.Debug("failed to load .env file", "path", path, "error", err)
		return
	}
	slog.Debug("loaded environment from .env", "path", path)
}
