// Package contract exposes the OpenAPI description of the submission
// endpoints and checks JSON bodies against it.
package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var document []byte

var ErrUnknownOperation = errors.New("no such operation in contract")

type Contract struct {
	doc *openapi3.T
}

// Load parses and validates the embedded document.
func Load() (*Contract, error) {
	return Parse(context.Background(), document)
}

func Parse(ctx context.Context, raw []byte) (*Contract, error) {
	loader := &openapi3.Loader{Context: ctx}

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}
	return &Contract{doc: doc}, nil
}

// Raw returns the embedded document bytes.
func Raw() []byte {
	return append([]byte(nil), document...)
}

// Paths lists the documented POST endpoints, sorted.
func (c *Contract) Paths() []string {
	var out []string
	for path, item := range c.doc.Paths.Map() {
		if item != nil && item.Post != nil {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// RequestSchema returns the JSON request schema of POST path.
func (c *Contract) RequestSchema(path string) (*openapi3.Schema, error) {
	item := c.doc.Paths.Find(path)
	if item == nil || item.Post == nil {
		return nil, fmt.Errorf("%w: POST %s", ErrUnknownOperation, path)
	}
	body := item.Post.RequestBody
	if body == nil || body.Value == nil {
		return nil, fmt.Errorf("contract: POST %s has no request body", path)
	}
	mt := body.Value.Content.Get("application/json")
	if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, fmt.Errorf("contract: POST %s has no JSON schema", path)
	}
	return mt.Schema.Value, nil
}

// ValidateRequest checks a raw JSON body against the request schema of POST path.
func (c *Contract) ValidateRequest(path string, body []byte) error {
	schema, err := c.RequestSchema(path)
	if err != nil {
		return err
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("contract: body is not JSON: %w", err)
	}
	if err := schema.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("contract: POST %s: %w", path, err)
	}
	return nil
}

// ValidateResponse checks a raw JSON response body for POST path and status.
func (c *Contract) ValidateResponse(path string, status int, body []byte) error {
	item := c.doc.Paths.Find(path)
	if item == nil || item.Post == nil {
		return fmt.Errorf("%w: POST %s", ErrUnknownOperation, path)
	}
	ref := item.Post.Responses.Status(status)
	if ref == nil || ref.Value == nil {
		return fmt.Errorf("contract: POST %s does not document status %d (%s)", path, status, http.StatusText(status))
	}
	mt := ref.Value.Content.Get("application/json")
	if mt == nil || mt.Schema == nil || mt.Schema.Value == nil {
		return nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return fmt.Errorf("contract: response is not JSON: %w", err)
	}
	return mt.Schema.Value.VisitJSON(value)
}
