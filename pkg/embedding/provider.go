package embedding

// Provider generates a vector embedding for a piece of text. Implementations
// talk to an external service; errors are retryable from the caller's point
// of view.
type Provider interface {
	Generate(text string, taskType string) (*Response, error)
}

type Response struct {
	Values []float32 `json:"values"`
}
