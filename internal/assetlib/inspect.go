package assetlib

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Inspect parses the metadata document and, when query is non-empty,
// evaluates it as a JSONPath expression. A query returns every match.
func Inspect(f *AssetFile, query string) (any, error) {
	doc, err := oj.Parse(f.JSON)
	if err != nil {
		return nil, fmt.Errorf("%w: metadata is not valid JSON: %v", ErrInvalidAsset, err)
	}
	if query == "" {
		return doc, nil
	}
	x, err := jp.ParseString(query)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", query, err)
	}
	return x.Get(doc), nil
}

// Format renders a value from Inspect as indented JSON.
func Format(v any) string {
	return oj.JSON(v, &oj.Options{Indent: 2, Sort: true})
}
