package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// envelope is the backend's optional response wrapper
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// decode unwraps the envelope when present and decodes the payload into out.
// A body without a success field is decoded as is.
func decode(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	payload := trimmed
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil && env.Success != nil {
			if !*env.Success {
				return &Error{StatusCode: http.StatusOK, Message: env.Message}
			}
			if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
				payload = env.Data
			}
		}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(payload, out)
}

// Message is the acknowledgement most mutating endpoints return
type Message struct {
	Message   string `json:"message"`
	RequestID ID     `json:"request_id,omitempty"`
}

// ID is an identifier the backend sends either as a JSON number or a string
type ID string

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Int returns the id as an integer when it is numeric
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}
