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

// Package embedder computes fixed-dimension vectors for chunk and
// query text.
//
// Calls are issued one text at a time; no batch endpoint is assumed.
package embedder

import "context"

// Embedder computes one embedding vector per call.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	Close() error
}

// ZeroVector returns a zero-valued vector of the given dimension, the
// degraded substitute the indexer and retriever use in place of a
// failed embedding call.
func ZeroVector(dimension int) []float32 {
	return make([]float32, dimension)
}
