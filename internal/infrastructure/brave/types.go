package brave

// webSearchResponse is the subset of the Brave web search payload we consume
type webSearchResponse struct {
	Web webResults `json:"web"`
}

type webResults struct {
	Results []webResult `json:"results"`
}

type webResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// errorResponse is the error body Brave returns on non-success statuses
type errorResponse struct {
	Message string `json:"message"`
}
