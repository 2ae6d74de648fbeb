package client

import (
	"bytes"
	"encoding/json"

	"github.com/projetproduits/storefront/internal/errors"
)

// The catalog list endpoints answer with either a bare JSON array or a
// {"data": [...]} envelope depending on the backend build. DecodeList
// normalizes both shapes and rejects anything else with a parse error
// instead of silently defaulting to an empty list.
func DecodeList[T any](body []byte) ([]T, error) {

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.ParseError("Empty response body for list endpoint")
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.ParseError("Malformed list response").WithError(err)
		}

		return items, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, errors.ParseError("Malformed list response").WithError(err)
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, errors.ParseError("List response carries no data field")
	}

	var items []T
	if err := json.Unmarshal(envelope.Data, &items); err != nil {
		return nil, errors.ParseError("Malformed data envelope").WithError(err)
	}

	return items, nil
}

// serverMessage digs the human-readable message out of an error body.
// The backends disagree on shape: {"message": ...}, {"error": "..."} or
// {"error": {"message": ...}} all occur.
func serverMessage(body []byte) string {

	var probe struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}

	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}

	if probe.Message != "" {
		return probe.Message
	}

	if len(probe.Error) == 0 {
		return ""
	}

	var errString string
	if err := json.Unmarshal(probe.Error, &errString); err == nil {
		return errString
	}

	var errObject struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(probe.Error, &errObject); err == nil {
		return errObject.Message
	}

	return ""
}
