package client

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	// DefaultServerMessage is used when an error body carries no message
	DefaultServerMessage = "An error occurred"
	// NetworkMessage is shown when no response was received
	NetworkMessage = "Network error. Please check your connection and make sure the backend is running."
	// UnexpectedMessage is shown for failures with no message of their own
	UnexpectedMessage = "An unexpected error occurred"
)

// ServerError is returned when the backend answered with a non-2xx status
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// NetworkError is returned when no response was received, including timeouts
type NetworkError struct {
	cause error
}

func (e *NetworkError) Error() string {
	return NetworkMessage
}

func (e *NetworkError) Unwrap() error {
	return e.cause
}

// UnexpectedError is returned for failures while building a request or
// handling its response
type UnexpectedError struct {
	Message string
	cause   error
}

func (e *UnexpectedError) Error() string {
	if e.Message == "" {
		return UnexpectedMessage
	}
	return e.Message
}

func (e *UnexpectedError) Unwrap() error {
	return e.cause
}

func unexpected(err error) *UnexpectedError {
	return &UnexpectedError{Message: err.Error(), cause: err}
}

// Message returns the user-displayable text of any error returned by the
// client. The three client error kinds are treated alike.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}
	var unexpectedErr *UnexpectedError
	if errors.As(err, &unexpectedErr) {
		return unexpectedErr.Error()
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnexpectedMessage
}

// IsStatus reports whether err is a ServerError with the given status code
func IsStatus(err error, code int) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr) && serverErr.StatusCode == code
}

type errorBody struct {
	Error  string            `json:"error"`
	Errors []json.RawMessage `json:"errors"`
}

// fieldError accepts both plain strings and {msg} or {message} objects
func fieldError(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Msg != "" {
			return obj.Msg
		}
		return obj.Message
	}
	return ""
}

// serverMessage extracts the message of an error body: the error field,
// else the field errors joined with ", ", else the default.
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return DefaultServerMessage
	}
	if eb.Error != "" {
		return eb.Error
	}

	var msgs []string
	for _, raw := range eb.Errors {
		if msg := fieldError(raw); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) > 0 {
		return strings.Join(msgs, ", ")
	}
	return DefaultServerMessage
}
