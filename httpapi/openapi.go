package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OpenAPI handles GET /openapi.json with a self-describing schema of the
// query endpoints.
func (h *Handler) OpenAPI(c *gin.Context) {
	c.JSON(http.StatusOK, openAPISpec)
}

var openAPISpec = gin.H{
	"openapi": "3.0.3",
	"info": gin.H{
		"title":       "Curio Query Service",
		"description": "Semantic search and retrieval-augmented answering over an art collection.",
		"version":     "1.0.0",
	},
	"paths": gin.H{
		"/search": gin.H{
			"post": gin.H{
				"summary": "Semantic retrieval",
				"requestBody": gin.H{
					"required": true,
					"content": gin.H{
						"application/json": gin.H{
							"schema": gin.H{"$ref": "#/components/schemas/SearchRequest"},
						},
					},
				},
				"responses": gin.H{
					"200": gin.H{
						"description": "Nearest chunks, ordered by non-decreasing distance",
						"content": gin.H{
							"application/json": gin.H{
								"schema": gin.H{"$ref": "#/components/schemas/SearchResponse"},
							},
						},
					},
					"400": gin.H{"description": "Validation error"},
					"502": gin.H{"description": "Upstream model error"},
					"503": gin.H{"description": "Vector backend unavailable"},
				},
			},
		},
		"/ask": gin.H{
			"post": gin.H{
				"summary": "Retrieval-augmented answering",
				"requestBody": gin.H{
					"required": true,
					"content": gin.H{
						"application/json": gin.H{
							"schema": gin.H{"$ref": "#/components/schemas/AskRequest"},
						},
					},
				},
				"responses": gin.H{
					"200": gin.H{
						"description": "Grounded answer with sources; plain text when response_type is answer_only",
						"content": gin.H{
							"application/json": gin.H{
								"schema": gin.H{"$ref": "#/components/schemas/AskResponse"},
							},
							"text/plain": gin.H{
								"schema": gin.H{"type": "string"},
							},
						},
					},
					"400": gin.H{"description": "Validation error"},
					"502": gin.H{"description": "Upstream model error"},
					"503": gin.H{"description": "Vector backend unavailable"},
				},
			},
		},
		"/healthz": gin.H{
			"get": gin.H{
				"summary":   "Liveness probe",
				"responses": gin.H{"200": gin.H{"description": "Service is up"}},
			},
		},
	},
	"components": gin.H{
		"schemas": gin.H{
			"SearchRequest": gin.H{
				"type":     "object",
				"required": []string{"query"},
				"properties": gin.H{
					"query": gin.H{"type": "string"},
					"top_k": gin.H{"type": "integer", "minimum": 1, "maximum": 100, "default": 5},
				},
			},
			"SearchResponse": gin.H{
				"type": "object",
				"properties": gin.H{
					"results": gin.H{
						"type":  "array",
						"items": gin.H{"$ref": "#/components/schemas/ChunkResult"},
					},
				},
			},
			"ChunkResult": gin.H{
				"type": "object",
				"properties": gin.H{
					"chunk": gin.H{"type": "string"},
					"metadata": gin.H{
						"type": "object",
						"properties": gin.H{
							"source_id":   gin.H{"type": "string"},
							"chunk_index": gin.H{"type": "integer"},
						},
					},
					"distance": gin.H{"type": "number", "format": "float"},
				},
			},
			"AskRequest": gin.H{
				"type":     "object",
				"required": []string{"query"},
				"properties": gin.H{
					"query":         gin.H{"type": "string"},
					"top_k":         gin.H{"type": "integer", "minimum": 1, "maximum": 100, "default": 5},
					"response_type": gin.H{"type": "string", "enum": []string{"full", "answer_only"}, "default": "full"},
				},
			},
			"AskResponse": gin.H{
				"type": "object",
				"properties": gin.H{
					"answer": gin.H{"type": "string"},
					"sources": gin.H{
						"type": "array",
						"items": gin.H{
							"type": "object",
							"properties": gin.H{
								"source_id":   gin.H{"type": "string"},
								"chunk_index": gin.H{"type": "integer"},
							},
						},
					},
				},
			},
		},
	},
}
