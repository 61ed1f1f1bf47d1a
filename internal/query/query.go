// Package query applies JMESPath expressions to API responses for --query.
//
// Responses are first normalized to the generic JSON shape (maps, slices,
// float64, string, bool, nil) because go-jmespath only walks those types
// reliably. A query whose result is empty never fails: a nil result becomes
// an empty array when the input was an array and an empty object otherwise,
// so piping the output into other tools always yields valid JSON.
package query

import (
	"encoding/json"
	"strings"

	"github.com/cognitivescale/cortex-cli/internal/errdefs"
	"github.com/jmespath/go-jmespath"
)

// Normalize converts any JSON-serializable value into its generic JSON form.
func Normalize(payload any) (any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errdefs.Internal("failed to encode response: %w", err)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, errdefs.Internal("failed to decode response: %w", err)
	}
	return generic, nil
}

// Compile parses an expression, reporting syntax errors as query errors.
func Compile(expression string) (*jmespath.JMESPath, error) {
	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, errdefs.Query("invalid query '%s': %v", expression, err)
	}
	return jp, nil
}

// Apply filters payload with expression. An empty expression returns the
// normalized payload unchanged.
func Apply(payload any, expression string) (any, error) {
	generic, err := Normalize(payload)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(expression) == "" {
		return emptyIfNil(generic, generic), nil
	}

	jp, err := Compile(expression)
	if err != nil {
		return nil, err
	}

	result, err := jp.Search(generic)
	if err != nil {
		return nil, errdefs.Query("query '%s' failed: %v", expression, err)
	}
	return emptyIfNil(result, generic), nil
}

// emptyIfNil replaces a nil result with an empty container shaped like input.
func emptyIfNil(result, input any) any {
	if result != nil {
		return result
	}
	if _, ok := input.([]any); ok {
		return []any{}
	}
	return map[string]any{}
}
