// Package gateway provides the HTTP client for the upstream agent gateway
// and the envelope decoding shared by every tool call.
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the wrapper every gateway response is assumed to carry.
type Envelope struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ContentKind discriminates the two shapes result.content can take.
type ContentKind int

const (
	// ContentNone means the result carried no content field.
	ContentNone ContentKind = iota
	// ContentText means content was a plain string.
	ContentText
	// ContentParts means content was a list of typed parts.
	ContentParts
)

// ContentPart is one entry of a multi-part tool response.
type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Name string `json:"name,omitempty"`
}

// Content is the closed variant for result.content: a plain string or a
// list of typed parts. Unknown shapes decode to ContentNone rather than
// failing, so a malformed upstream payload degrades to "no data".
type Content struct {
	Kind  ContentKind
	Text  string
	Parts []ContentPart
}

// UnmarshalJSON never returns an error for shape mismatches; the zero
// Content (ContentNone) stands in for anything unrecognized.
func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Kind = ContentText
		c.Text = s
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		c.Kind = ContentParts
		c.Parts = parts
		return nil
	}
	*c = Content{}
	return nil
}

type resultBody struct {
	Content Content         `json:"content"`
	Details json.RawMessage `json:"details,omitempty"`
}

// Unwrap reduces an envelope to its logical payload.
// A string content is parsed as JSON when possible, falling back to the raw
// string. A parts content with exactly one text part is reduced the same
// way; multiple parts are returned as-is. A result without content is
// returned verbatim.
func Unwrap(env *Envelope) (any, error) {
	if !env.OK {
		if env.Error != "" {
			return nil, fmt.Errorf("gateway: %s", env.Error)
		}
		return nil, errors.New("gateway: call failed")
	}
	if len(env.Result) == 0 {
		return nil, nil
	}

	var body resultBody
	if err := json.Unmarshal(env.Result, &body); err == nil {
		switch body.Content.Kind {
		case ContentText:
			return parseLoose(body.Content.Text), nil
		case ContentParts:
			var texts []ContentPart
			for _, p := range body.Content.Parts {
				if p.Type == "text" && p.Text != "" {
					texts = append(texts, p)
				}
			}
			if len(texts) == 1 {
				return parseLoose(texts[0].Text), nil
			}
			return body.Content.Parts, nil
		}
	}

	var out any
	if err := json.Unmarshal(env.Result, &out); err != nil {
		return nil, nil
	}
	return out, nil
}

// parseLoose attempts to parse s as JSON, returning the raw string when it
// is not valid JSON.
func parseLoose(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
