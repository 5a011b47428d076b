// Package rag implements retrieval-augmented answer generation.
//
// An Answerer retrieves the chunks nearest to the question, assembles them
// into a context block, and asks the language model for an answer grounded
// only in that context. The response carries the source references of every
// chunk that informed it.
package rag
