package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthorized = errors.New("not authenticated")
	ErrForbidden    = errors.New("access denied")
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited, retry later")
	ErrServer       = errors.New("server error, retry later")
	ErrValidation   = errors.New("validation failed")
	ErrUnavailable  = errors.New("network error")
	ErrMalformed    = errors.New("malformed response")
)

// Kind classifies a failed call.
type Kind int

const (
	KindHTTP Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindRateLimited
	KindServer
	KindValidation
	KindNetwork
	KindMalformed
)

var kindSentinels = map[Kind]error{
	KindUnauthorized: ErrUnauthorized,
	KindForbidden:    ErrForbidden,
	KindNotFound:     ErrNotFound,
	KindRateLimited:  ErrRateLimited,
	KindServer:       ErrServer,
	KindValidation:   ErrValidation,
	KindNetwork:      ErrUnavailable,
	KindMalformed:    ErrMalformed,
}

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindServer:
		return "server"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed"
	default:
		return "http"
	}
}

// APIError is the normalized failure of an API call. Message is ready to be
// shown to the user as is.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind, so callers can write
// errors.Is(err, client.ErrUnauthorized).
func (e *APIError) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// Message returns the user-facing text of err.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// normalize maps a non-2xx response to an APIError. Status codes win over
// the body; the body's detail field is consulted only for other 4xx codes.
func normalize(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	switch {
	case status == 401:
		e.Kind, e.Message = KindUnauthorized, ErrUnauthorized.Error()
	case status == 403:
		e.Kind, e.Message = KindForbidden, ErrForbidden.Error()
	case status == 404:
		e.Kind, e.Message = KindNotFound, ErrNotFound.Error()
	case status == 429:
		e.Kind, e.Message = KindRateLimited, ErrRateLimited.Error()
	case status >= 500:
		e.Kind, e.Message = KindServer, ErrServer.Error()
	default:
		if msg, ok := detailMessage(body); ok {
			e.Kind, e.Message = KindValidation, msg
		} else {
			e.Kind, e.Message = KindHTTP, fmt.Sprintf("HTTP Error %d", status)
		}
	}
	return e
}

// detailMessage extracts text from {"detail": ...}. The detail may be a
// string, an object with msg, or a list of such objects.
func detailMessage(body []byte) (string, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s, s != ""
	}

	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if msg := msgField(item); msg != "" {
				parts = append(parts, msg)
				continue
			}
			parts = append(parts, compact(item))
		}
		msg := strings.Join(parts, " ")
		return msg, msg != ""
	}

	if msg := msgField(envelope.Detail); msg != "" {
		return msg, true
	}
	return "", false
}

func msgField(raw json.RawMessage) string {
	var obj struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return obj.Msg
}

func compact(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
