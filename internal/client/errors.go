package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// Operation names a product service call
type Operation string

const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpVerify Operation = "verify"
)

// APIError is the single error shape returned by every client call.
// Status 0 means the request never produced an HTTP response.
type APIError struct {
	Status  int
	Message string
	Errors  map[string]string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// FieldMessages returns the per-field messages in field order
func (e *APIError) FieldMessages() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, e.Errors[f])
	}
	return out
}

type operationMessages struct {
	badRequest string
	notFound   string
	other      string
}

var messages = map[Operation]operationMessages{
	OpList: {
		badRequest: "invalid request",
		notFound:   "no products found",
		other:      "unexpected error while fetching products",
	},
	OpGet: {
		badRequest: "invalid request",
		notFound:   "product not found",
		other:      "unexpected error while fetching the product",
	},
	OpCreate: {
		badRequest: "invalid request, check the submitted data",
		notFound:   "the requested resource was not found",
		other:      "unexpected server error",
	},
	OpUpdate: {
		badRequest: "invalid request, check the submitted data",
		notFound:   "the requested resource was not found",
		other:      "unexpected server error",
	},
	OpDelete: {
		badRequest: "invalid request",
		notFound:   "product not found",
		other:      "unexpected error while deleting the product",
	},
	OpVerify: {
		badRequest: "invalid request",
		notFound:   "the requested resource was not found",
		other:      "unexpected server error",
	},
}

// errorBody is the backend failure payload
type errorBody struct {
	Name    string          `json:"name"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// transportError wraps a failure that happened before a response was read
func transportError(op Operation, err error) *APIError {
	return &APIError{
		Message: messages[op].other,
		Err:     err,
	}
}

// responseError normalizes a non-2xx response
func responseError(op Operation, status int, body []byte) *APIError {
	msgs := messages[op]
	apiErr := &APIError{Status: status}

	switch status {
	case http.StatusBadRequest:
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err == nil {
			apiErr.Message = strings.TrimSpace(eb.Message)
			apiErr.Errors = decodeFieldErrors(eb.Errors)
		}
		if apiErr.Message == "" {
			apiErr.Message = msgs.badRequest
		}
	case http.StatusNotFound:
		apiErr.Message = msgs.notFound
	default:
		apiErr.Message = msgs.other
	}
	return apiErr
}

// decodeFieldErrors accepts either a field map or a list of messages
func decodeFieldErrors(raw json.RawMessage) map[string]string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var byField map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byField); err == nil {
		out := make(map[string]string, len(byField))
		for field, v := range byField {
			out[field] = rawText(v)
		}
		return out
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make(map[string]string, len(list))
		for i, v := range list {
			out[strconv.Itoa(i)] = rawText(v)
		}
		return out
	}
	return nil
}

func rawText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(v)
}
