package pinecone

// createIndexRequest is the control-plane request body for index creation.
type createIndexRequest struct {
	Name      string `json:"name"`
	Dimension uint   `json:"dimension"`
	Metric    string `json:"metric"`
}

// upsertVector is a single vector in an upsert request.
type upsertVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// upsertRequest is the request body for upserting vectors.
type upsertRequest struct {
	Vectors   []upsertVector `json:"vectors"`
	Namespace string         `json:"namespace,omitempty"`
}

// queryRequest is the request body for similarity queries.
type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

// queryMatch is a single ranked match in a query response.
type queryMatch struct {
	ID       string         `json:"id"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// queryResponse is the response from a similarity query.
type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

// deleteRequest is the request body for deleting vectors.
type deleteRequest struct {
	IDs []string `json:"ids"`
}
