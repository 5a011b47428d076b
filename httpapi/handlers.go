package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openmuse/curio/core"
	"github.com/openmuse/curio/rag"
)

// SearchService is the retrieval operation the handlers depend on.
type SearchService interface {
	Search(ctx context.Context, query string, topK int) ([]core.SearchHit, error)
}

// AskService is the answering operation the handlers depend on.
type AskService interface {
	Ask(ctx context.Context, query string, topK int) (*rag.Answer, error)
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Query        string `json:"query"`
	TopK         *int   `json:"top_k"`
	ResponseType string `json:"response_type"`
}

// ChunkMetadata identifies where a chunk came from.
type ChunkMetadata struct {
	SourceID   string `json:"source_id"`
	ChunkIndex int    `json:"chunk_index"`
}

// ChunkResult is a single search hit.
type ChunkResult struct {
	Chunk    string        `json:"chunk"`
	Metadata ChunkMetadata `json:"metadata"`
	Distance float32       `json:"distance"`
}

// SearchResponse is the body of a successful POST /search.
type SearchResponse struct {
	Results []ChunkResult `json:"results"`
}

// SourceRef identifies a chunk that informed an answer.
type SourceRef struct {
	SourceID   string `json:"source_id"`
	ChunkIndex int    `json:"chunk_index"`
}

// AskResponse is the body of a successful POST /ask with response_type full.
type AskResponse struct {
	Answer  string      `json:"answer"`
	Sources []SourceRef `json:"sources"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the query endpoints.
type Handler struct {
	searcher SearchService
	answerer AskService
	logger   *slog.Logger
}

// NewHandler creates a handler over the given services.
func NewHandler(searcher SearchService, answerer AskService) *Handler {
	return &Handler{
		searcher: searcher,
		answerer: answerer,
		logger:   slog.Default().With("component", "httpapi"),
	}
}

// Search handles POST /search.
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	topK, err := core.ValidateTopK(req.TopK)
	if err != nil {
		h.writeError(c, err)
		return
	}

	hits, err := h.searcher.Search(c.Request.Context(), req.Query, topK)
	if err != nil {
		h.writeError(c, err)
		return
	}

	results := make([]ChunkResult, len(hits))
	for i, hit := range hits {
		results[i] = ChunkResult{
			Chunk: hit.Chunk.Text,
			Metadata: ChunkMetadata{
				SourceID:   hit.Chunk.SourceID,
				ChunkIndex: hit.Chunk.Index,
			},
			Distance: hit.Distance,
		}
	}

	c.JSON(http.StatusOK, SearchResponse{Results: results})
}

// Ask handles POST /ask.
func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}

	topK, err := core.ValidateTopK(req.TopK)
	if err != nil {
		h.writeError(c, err)
		return
	}

	responseType, err := core.ValidateResponseType(req.ResponseType)
	if err != nil {
		h.writeError(c, err)
		return
	}

	answer, err := h.answerer.Ask(c.Request.Context(), req.Query, topK)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if responseType == core.ResponseTypeAnswerOnly {
		c.String(http.StatusOK, answer.Answer)
		return
	}

	sources := make([]SourceRef, len(answer.Sources))
	for i, s := range answer.Sources {
		sources[i] = SourceRef{SourceID: s.SourceID, ChunkIndex: s.ChunkIndex}
	}
	c.JSON(http.StatusOK, AskResponse{Answer: answer.Answer, Sources: sources})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps service errors to HTTP statuses. Validation failures are
// 400, an unavailable vector backend is 503, and upstream model failures
// are 502. Anything unexpected is a 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyQuery),
		errors.Is(err, core.ErrInvalidTopK),
		errors.Is(err, core.ErrInvalidResponseType):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrBackendUnavailable):
		h.logger.Error("vector backend unavailable", "err", err)
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "vector backend unavailable"})
	case errors.Is(err, core.ErrUpstreamModel):
		h.logger.Error("upstream model error", "err", err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: "upstream model error"})
	default:
		h.logger.Error("internal error", "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
