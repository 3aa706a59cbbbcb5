package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// fencePattern matches markdown code-fence markers, with or without a language tag.
var fencePattern = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// StripFences trims the text and removes every markdown code-fence marker.
func StripFences(text string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(strings.TrimSpace(text), ""))
}

// Normalize turns raw model output into a Variant.
//
// Key precedence: cta_text then cta; used_tokens then usedTokens. A missing or
// non-string id is replaced by a random UUID. The returned error wraps one of
// ErrParse, ErrShape or ErrValidation.
func Normalize(raw string) (*Variant, error) {
	parsed, err := parseJSON(StripFences(raw))
	if err != nil {
		return nil, err
	}

	obj, err := selectObject(parsed)
	if err != nil {
		return nil, err
	}

	subject := stringField(obj, "subject")
	body := stringField(obj, "body")
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: model returned a variant without subject or body", ErrValidation)
	}

	canonical, err := canonicalJSON(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	variant := &Variant{
		ID:         stringField(obj, "id"),
		Subject:    subject,
		Body:       body,
		Confidence: numberField(obj, "confidence"),
		UsedTokens: stringsField(obj, "used_tokens", "usedTokens"),
		RawText:    canonical,
	}
	if variant.ID == "" {
		variant.ID = uuid.NewString()
	}
	if cta := firstString(obj, "cta_text", "cta"); cta != "" {
		variant.CTAText = &cta
	}

	return variant, nil
}

// parseJSON decodes the text, falling back to the span between the first opening
// and the last closing bracket when the model wrapped its JSON in prose.
func parseJSON(text string) (interface{}, error) {
	value, err := decode(text)
	if err == nil {
		return value, nil
	}

	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "}]")
	if start >= 0 && end > start {
		if value, spanErr := decode(text[start : end+1]); spanErr == nil {
			return value, nil
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrParse, err)
}

func decode(text string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	// Reject trailing data such as a second document.
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return value, nil
}

func selectObject(parsed interface{}) (map[string]interface{}, error) {
	switch v := parsed.(type) {
	case map[string]interface{}:
		return v, nil
	case []interface{}:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]interface{}); ok {
				return obj, nil
			}
		}
		return nil, fmt.Errorf("%w: list must start with an object", ErrShape)
	default:
		return nil, fmt.Errorf("%w: got %T", ErrShape, parsed)
	}
}

func stringField(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return s
}

func firstString(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := stringField(obj, key); s != "" {
			return s
		}
	}
	return ""
}

func numberField(obj map[string]interface{}, key string) *float64 {
	n, ok := obj[key].(json.Number)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}

func stringsField(obj map[string]interface{}, keys ...string) []string {
	for _, key := range keys {
		items, ok := obj[key].([]interface{})
		if !ok || len(items) == 0 {
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	return nil
}

// canonicalJSON serializes the selected object without HTML escaping, since
// bodies are HTML and the text is kept for auditing.
func canonicalJSON(obj map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(obj); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
