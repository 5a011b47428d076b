// Package httpapi exposes the query service over HTTP.
//
// Routes:
//
//	POST /search        semantic retrieval
//	POST /ask           retrieval-augmented answering
//	GET  /healthz       liveness probe
//	GET  /openapi.json  API schema
//
// Validation failures map to 400, vector backend failures to 503, and
// embedding or generation failures to 502. Failed requests never carry
// partial results.
package httpapi
