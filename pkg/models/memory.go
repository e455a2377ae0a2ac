// Package models contains domain models shared between the store client
// and the rendering pipeline.
package models

import "time"

// Category is the semantic bucket a retrieved memory is rendered under.
type Category string

const (
	CategoryDecision   Category = "decision"
	CategoryWarning    Category = "warning"
	CategoryConvention Category = "convention"
	CategoryDiscovery  Category = "discovery"
	CategoryWork       Category = "work"
	CategoryKnowledge  Category = "knowledge"
)

// Memory is one stored knowledge item as returned by the external store.
// The store owns these records; this system only reads them for
// classification and rendering.
type Memory struct {
	Content    string         `json:"content"`
	Type       string         `json:"memory_type,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Importance float64        `json:"importance,omitempty"`
	CreatedAt  time.Time      `json:"created_at,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// SubmitRequest is the write-path payload sent to the external store.
// Extraction of one submission into multiple memories is the store's
// decision and opaque here.
type SubmitRequest struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SubmitResult is the store's acknowledgement of a submission.
type SubmitResult struct {
	MemoryID      string `json:"memory_id,omitempty"`
	MemoriesSaved int    `json:"memories_saved"`
	Success       bool   `json:"success"`
}

// SearchResult is the read-path response: the store's relevance ordering
// is preserved, never re-sorted locally.
type SearchResult struct {
	Count    int      `json:"count"`
	Memories []Memory `json:"memories"`
}
