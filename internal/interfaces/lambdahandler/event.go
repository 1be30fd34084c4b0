package lambdahandler

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

// InboundEvent is an API Gateway proxy request. Body is kept raw so the
// handler can tell an absent body from a JSON string and from an object
// inlined by a direct invocation or console test event.
type InboundEvent struct {
	Resource        string                               `json:"resource"`
	Path            string                               `json:"path"`
	HTTPMethod      string                               `json:"httpMethod"`
	Headers         map[string]string                    `json:"headers"`
	RequestContext  events.APIGatewayProxyRequestContext `json:"requestContext"`
	Body            json.RawMessage                      `json:"body"`
	IsBase64Encoded bool                                 `json:"isBase64Encoded"`
}

// NewStringBodyEvent builds an event whose body is the given string, the way
// API Gateway forwards an HTTP request body.
func NewStringBodyEvent(method, path, body string) InboundEvent {
	// Marshaling a string cannot fail.
	raw, _ := json.Marshal(body)
	return InboundEvent{
		Path:       path,
		HTTPMethod: method,
		Body:       raw,
	}
}

// OutboundEvent is the API Gateway proxy response.
type OutboundEvent = events.APIGatewayProxyResponse
