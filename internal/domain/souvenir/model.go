package souvenir

import "context"

const jsonContentType = "application/json"

// Recommendation is the success payload returned to callers.
type Recommendation struct {
	Prefecture     string `json:"prefecture"`
	Recommendation string `json:"recommendation"`
}

// InvokeRequest is a single synchronous model invocation.
type InvokeRequest struct {
	ModelID     string
	ContentType string
	Accept      string
	Body        []byte
}

// InvokeResponse carries the raw model output.
type InvokeResponse struct {
	ContentType string
	Body        []byte
}

// Invoker performs model invocations against the inference backend.
type Invoker interface {
	InvokeModel(ctx context.Context, req InvokeRequest) (*InvokeResponse, error)
}
