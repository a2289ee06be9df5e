package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingShop  = errors.New("shop domain is required")
	ErrUnsuccessful = errors.New("backend reported failure")
)

// StatusError is returned for non-2xx responses other than 304.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed: %d - %s", e.Code, e.Body)
}

// GraphQLError carries the messages of a non-empty GraphQL errors array.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "GraphQL error: " + strings.Join(e.Messages, "; ")
}

// EnvelopeError is a response whose envelope said success: false.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return ErrUnsuccessful.Error()
	}
	return fmt.Sprintf("%s: %s", ErrUnsuccessful, e.Message)
}

func (e *EnvelopeError) Unwrap() error { return ErrUnsuccessful }

// DisplayMessage turns a request failure into the string shown to the user.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	var gqlErr *GraphQLError
	var envErr *EnvelopeError

	switch {
	case errors.Is(err, context.Canceled):
		return "Request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out"
	case errors.Is(err, ErrMissingShop):
		return "Shop domain is not configured"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Request failed with status %d", statusErr.Code)
	case errors.As(err, &gqlErr):
		return strings.Join(gqlErr.Messages, "; ")
	case errors.As(err, &envErr):
		if envErr.Message != "" {
			return envErr.Message
		}
		return "Request failed"
	}
	return err.Error()
}
