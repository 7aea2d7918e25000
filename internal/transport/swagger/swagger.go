// Package swagger loads the API's OpenAPI document and serves it alongside
// the Swagger UI.
package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Spec is a loaded and validated OpenAPI document.
type Spec struct {
	doc  *openapi3.T
	json []byte
}

// Load reads the document at path and fails if it does not validate.
func Load(ctx context.Context, path string) (*Spec, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document %s: %w", path, err)
	}

	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}
	return &Spec{doc: doc, json: raw}, nil
}

func (s *Spec) Title() string {
	return s.doc.Info.Title
}

func (s *Spec) Version() string {
	return s.doc.Info.Version
}

// Operations returns "METHOD path" for every operation in the document.
func (s *Spec) Operations() []string {
	var ops []string
	for _, path := range s.doc.Paths.InMatchingOrder() {
		item := s.doc.Paths.Value(path)
		for method := range item.Operations() {
			ops = append(ops, method+" "+path)
		}
	}
	return ops
}

func (s *Spec) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(s.json)
}

// Handler serves the Swagger UI pointed at specURL.
func Handler(specURL string) http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(specURL),
	)
}
