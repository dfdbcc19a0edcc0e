package types

// ResponseCode classifies the outcome of a single-record operation
type ResponseCode string

const (
	Success  ResponseCode = "SUCCESS"
	Error    ResponseCode = "ERROR"
	NotFound ResponseCode = "NOT_FOUND"
)

const (
	NarrativeSuccess  = "Operation completed successfully"
	NarrativeError    = "Operation failed"
	NarrativeNotFound = "Not found"
)

// APIResponse is the envelope around single-record results
type APIResponse[T any] struct {
	Body         T            `json:"body"`
	Narrative    string       `json:"narrative"`
	Successful   bool         `json:"successful"`
	ResponseCode ResponseCode `json:"responseCode"`
}

// OK wraps body in a successful envelope
func OK[T any](body T) APIResponse[T] {
	return APIResponse[T]{
		Body:         body,
		Narrative:    NarrativeSuccess,
		Successful:   true,
		ResponseCode: Success,
	}
}

// Failed builds an ERROR envelope. An empty narrative uses the default.
func Failed(narrative string) APIResponse[any] {
	if narrative == "" {
		narrative = NarrativeError
	}
	return APIResponse[any]{Narrative: narrative, ResponseCode: Error}
}

// Missing builds a NOT_FOUND envelope. An empty narrative uses the default.
func Missing(narrative string) APIResponse[any] {
	if narrative == "" {
		narrative = NarrativeNotFound
	}
	return APIResponse[any]{Narrative: narrative, ResponseCode: NotFound}
}
