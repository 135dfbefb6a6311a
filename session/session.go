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

// Package session implements the durable Session Store: load-at-start,
// save-at-end persistence of a run's chunks, keyed by session ID.
package session

import (
	"context"

	"github.com/websearchqa/ragqa/ragdoc"
)

// DefaultLoadLimit bounds how many chunks Load returns.
const DefaultLoadLimit = 1000

// Store is the Session Store contract. Persistence is best-effort:
// Save must never fail the pipeline; Load must degrade to an empty
// slice rather than propagate an error.
type Store interface {
	Load(ctx context.Context, sessionID string) []ragdoc.SemanticChunk
	Save(ctx context.Context, sessionID string, chunks []ragdoc.SemanticChunk)
}

// collectionName derives the store's collection key for a session.
func collectionName(sessionID string) string {
	return "session_" + sessionID
}
