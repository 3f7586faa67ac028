package graphql

import (
	"net/http"

	"github.com/graphql-go/handler"
)

// NewHTTPHandler serves the schema over HTTP. GET requests render the
// Playground; POST requests execute queries.
func NewHTTPHandler(s *Schema) http.Handler {
	return handler.New(&handler.Config{
		Schema:     s.Schema(),
		Pretty:     true,
		Playground: true,
	})
}
