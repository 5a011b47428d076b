// Package vector defines the vector database abstraction used by the
// ingestion pipeline and the query service.
//
// The Store interface covers the operations Curio needs: collection
// creation, batched point upsert, and nearest-neighbor query. Two
// implementations exist:
//
//   - vector/qdrant: production implementation over the qdrant gRPC API
//   - vector/memory: exact cosine scan for tests and offline use
//
// Distances follow the cosine-distance convention: lower means more
// similar, and Query results are ordered by non-decreasing distance.
package vector
