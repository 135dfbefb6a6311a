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

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/websearchqa/ragqa/ragdoc"
)

// QdrantConfig configures the QdrantStore.
type QdrantConfig struct {
	Host      string
	Port      int
	APIKey    string
	UseTLS    bool
	Dimension int
	LoadLimit uint32
}

// QdrantStore is the durable, Qdrant-backed Session Store. Each
// session gets its own collection ("session_<id>"), fixed at the
// configured vector dimension with cosine distance. The in-memory
// vectorindex uses L2 distance instead, so the two stores' scores are
// not comparable.
type QdrantStore struct {
	client    *qdrant.Client
	dimension int
	loadLimit uint32
}

// NewQdrantStore dials Qdrant and returns a ready Store.
func NewQdrantStore(cfg QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, err
	}

	limit := cfg.LoadLimit
	if limit == 0 {
		limit = DefaultLoadLimit
	}

	return &QdrantStore{client: client, dimension: cfg.Dimension, loadLimit: limit}, nil
}

// Close releases the underlying Qdrant connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// payload is the JSON-serialized form of a SemanticChunk stored as a
// single Qdrant payload field.
type payload struct {
	ChunkID   string               `json:"chunk_id"`
	Content   string               `json:"content"`
	SourceURL string               `json:"source_url"`
	Metadata  ragdoc.ChunkMetadata `json:"metadata"`
	CreatedAt string               `json:"created_at"`
}

// Load fetches up to the store's load limit (QdrantConfig.LoadLimit,
// DefaultLoadLimit when unset) of chunks previously saved for a
// session. Any failure (missing collection, transport error) degrades
// to an empty slice rather than propagating.
func (s *QdrantStore) Load(ctx context.Context, sessionID string) []ragdoc.SemanticChunk {
	collection := collectionName(sessionID)

	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil || !exists {
		return nil
	}

	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collection,
		Limit:          &s.loadLimit,
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		slog.Warn("session load failed, continuing with empty session", "session_id", sessionID, "error", err)
		return nil
	}

	chunks := make([]ragdoc.SemanticChunk, 0, len(points))
	for _, p := range points {
		c, ok := chunkFromPoint(p)
		if !ok {
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks
}

// Save upserts chunks into the session's collection, creating it on
// first use. Failures are logged, never returned: a session write
// must not fail the pipeline.
//
// Note: chunks loaded at session start are part of the slice callers
// pass back in here, so they are re-upserted (with the same point
// IDs) on every save. This is an intentional quirk, left intact
// rather than special-cased away.
func (s *QdrantStore) Save(ctx context.Context, sessionID string, chunks []ragdoc.SemanticChunk) {
	if len(chunks) == 0 {
		return
	}
	collection := collectionName(sessionID)

	if err := s.ensureCollection(ctx, collection); err != nil {
		slog.Warn("session save: ensure collection failed", "session_id", sessionID, "error", err)
		return
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, c := range chunks {
		p, err := pointFromChunk(c)
		if err != nil {
			slog.Warn("session save: skipping chunk", "chunk_id", c.ChunkID, "error", err)
			continue
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	}); err != nil {
		slog.Warn("session save: upsert failed", "session_id", sessionID, "error", err)
	}
}

func (s *QdrantStore) ensureCollection(ctx context.Context, collection string) error {
	exists, err := s.client.CollectionExists(ctx, collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

// pointFromChunk maps a SemanticChunk onto a Qdrant point. Chunk IDs
// are hex MD5 strings, not UUIDs, so each point's ID is a deterministic
// UUID derived from the chunk ID rather than the chunk ID itself, since
// Qdrant point IDs must be a UUID or an unsigned integer.
func pointFromChunk(c ragdoc.SemanticChunk) (*qdrant.PointStruct, error) {
	body, err := json.Marshal(payload{
		ChunkID:   c.ChunkID,
		Content:   c.Content,
		SourceURL: c.SourceURL,
		Metadata:  c.Metadata,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05.999999999Z07:00"),
	})
	if err != nil {
		return nil, err
	}

	val, err := qdrant.NewValue(string(body))
	if err != nil {
		return nil, err
	}

	return &qdrant.PointStruct{
		Id:      qdrant.NewID(pointUUID(c.ChunkID)),
		Vectors: qdrant.NewVectors(c.Embedding...),
		Payload: map[string]*qdrant.Value{"chunk": val},
	}, nil
}

func pointUUID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}

func chunkFromPoint(p *qdrant.RetrievedPoint) (ragdoc.SemanticChunk, bool) {
	if p.Payload == nil {
		return ragdoc.SemanticChunk{}, false
	}
	raw, ok := p.Payload["chunk"]
	if !ok || raw.GetStringValue() == "" {
		return ragdoc.SemanticChunk{}, false
	}

	var pl payload
	if err := json.Unmarshal([]byte(raw.GetStringValue()), &pl); err != nil {
		return ragdoc.SemanticChunk{}, false
	}

	var embedding []float32
	if p.Vectors != nil {
		if vec := p.Vectors.GetVector(); vec != nil {
			if dense, ok := vec.Vector.(*qdrant.VectorOutput_Dense); ok && dense.Dense != nil {
				embedding = dense.Dense.Data
			}
		}
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, pl.CreatedAt)

	return ragdoc.SemanticChunk{
		ChunkID:   pl.ChunkID,
		Content:   pl.Content,
		SourceURL: pl.SourceURL,
		Embedding: embedding,
		Metadata:  pl.Metadata,
		CreatedAt: createdAt,
	}, true
}

var _ Store = (*QdrantStore)(nil)
