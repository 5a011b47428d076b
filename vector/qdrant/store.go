// Copyright 2025 Openmuse Labs
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


// Package qdrant implements vector.Store over the qdrant gRPC API.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/openmuse/curio/core"
	"github.com/openmuse/curio/vector"
)

// Store implements vector.Store against a qdrant server.
type Store struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	dimensions  int
	logger      *slog.Logger
}

// NewStore connects to a qdrant server at addr (host:port of the gRPC
// endpoint) and prepares a Store for the named collection.
func NewStore(addr string, cfg vector.CollectionConfig) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrBackendUnavailable, err)
	}

	return &Store{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  cfg.Name,
		dimensions:  cfg.Dimensions,
		logger:      slog.Default().With("component", "qdrant-store"),
	}, nil
}

// EnsureCollection creates the collection with cosine distance and the
// configured HNSW parameters if it does not already exist.
func (s *Store) EnsureCollection(ctx context.Context, cfg vector.CollectionConfig) error {
	collections, err := s.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("%w: list collections: %w", core.ErrBackendUnavailable, err)
	}

	for _, col := range collections.GetCollections() {
		if col.GetName() == cfg.Name {
			s.logger.Debug("collection already exists", "collection", cfg.Name)
			return nil
		}
	}

	// An empty metric means the default.
	if cfg.Distance != vector.DistanceCosine && cfg.Distance != "" {
		return fmt.Errorf("unsupported distance metric %q", cfg.Distance)
	}

	s.logger.Info("creating collection",
		"collection", cfg.Name,
		"dimensions", cfg.Dimensions)

	_, err = s.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: cfg.Name,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(cfg.Dimensions),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
		HnswConfig: &qdrantclient.HnswConfigDiff{
			M:           &cfg.HnswM,
			EfConstruct: &cfg.HnswEfConstruct,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create collection: %w", core.ErrBackendUnavailable, err)
	}
	return nil
}

// Upsert inserts or overwrites points by their numeric IDs.
// Waits for the write to be applied before returning.
func (s *Store) Upsert(ctx context.Context, points []vector.Point) error {
	if len(points) == 0 {
		return nil
	}

	qpoints := make([]*qdrantclient.PointStruct, 0, len(points))
	for _, p := range points {
		if len(p.Vector) != s.dimensions {
			return fmt.Errorf("%w: got %d, collection expects %d",
				vector.ErrDimensionMismatch, len(p.Vector), s.dimensions)
		}
		qpoints = append(qpoints, &qdrantclient.PointStruct{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Num{
					Num: uint64(p.ID),
				},
			},
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{
						Data: p.Vector,
					},
				},
			},
			Payload: map[string]*qdrantclient.Value{
				"source_id":   {Kind: &qdrantclient.Value_StringValue{StringValue: p.SourceID}},
				"chunk_index": {Kind: &qdrantclient.Value_IntegerValue{IntegerValue: int64(p.ChunkIndex)}},
				"text":        {Kind: &qdrantclient.Value_StringValue{StringValue: p.Text}},
			},
		})
	}

	wait := true
	_, err := s.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: s.collection,
		Points:         qpoints,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("%w: upsert: %w", core.ErrBackendUnavailable, err)
	}

	s.logger.Debug("upserted points", "count", len(qpoints))
	return nil
}

// Query returns the nearest neighbors of the query vector, ordered by
// non-decreasing cosine distance. Qdrant reports cosine similarity, so
// scores are converted via distance = 1 - score.
func (s *Store) Query(ctx context.Context, queryVector []float32, limit int) ([]core.SearchHit, error) {
	if len(queryVector) != s.dimensions {
		return nil, fmt.Errorf("%w: got %d, collection expects %d",
			vector.ErrDimensionMismatch, len(queryVector), s.dimensions)
	}

	resp, err := s.points.Search(ctx, &qdrantclient.SearchPoints{
		CollectionName: s.collection,
		Vector:         queryVector,
		Limit:          uint64(limit),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Include{
				Include: &qdrantclient.PayloadIncludeSelector{
					Fields: []string{"source_id", "chunk_index", "text"},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", core.ErrBackendUnavailable, err)
	}

	hits := make([]core.SearchHit, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		hit := core.SearchHit{Distance: 1 - point.GetScore()}
		if v, ok := point.Payload["source_id"]; ok {
			hit.Chunk.SourceID = v.GetStringValue()
		}
		if v, ok := point.Payload["chunk_index"]; ok {
			hit.Chunk.Index = int(v.GetIntegerValue())
		}
		if v, ok := point.Payload["text"]; ok {
			hit.Chunk.Text = v.GetStringValue()
		}
		hits = append(hits, hit)
	}

	// Qdrant returns results by descending score, which maps to ascending
	// distance, but the contract is explicit so enforce it.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	return hits, nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}
