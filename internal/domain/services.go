package domain

import "context"

// VisionService defines the interface for the external image analysis call.
// The reply is free text expected (but not guaranteed) to contain JSON.
type VisionService interface {
	AnalyzeImage(ctx context.Context, imageURL string) (string, error)
}

// SearchProvider defines the interface for the external web search call.
type SearchProvider interface {
	Search(ctx context.Context, query string, count int) ([]SearchResult, error)
}

// CompletionRequest is the input to one synthesis call.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// SynthesisService defines the interface for the external LLM call that
// merges the gathered context into the final report text.
type SynthesisService interface {
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}
