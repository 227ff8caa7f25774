// Package apiv1 loads and checks the published OpenAPI document for the JSON API.
package apiv1

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// DocPath is the OpenAPI document relative to the project root.
const DocPath = "public/docs/v1/openapi.yml"

// LoadSpec parses and validates the OpenAPI document at path.
func LoadSpec(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document %s: %w", path, err)
	}
	return doc, nil
}

// Operation names a documented route.
type Operation struct {
	Method string
	Path   string
}

// Operations lists every documented route in OpenAPI path syntax.
func Operations(doc *openapi3.T) []Operation {
	var ops []Operation
	for _, path := range doc.Paths.InMatchingOrder() {
		item := doc.Paths.Find(path)
		for method := range item.Operations() {
			ops = append(ops, Operation{Method: method, Path: path})
		}
	}
	return ops
}
