package parser

import (
	"fmt"
	"strings"

	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/errors"
	"github.com/reglet-dev/reglet-ext/domain/ports"
)

// checkShape runs the document validator and converts a failed validation
// into a shape error.
func checkShape(v ports.DocumentValidator, doc any) error {
	if v == nil {
		return nil
	}
	res, err := v.Validate(doc)
	if err != nil {
		return &errors.ManifestError{Kind: errors.KindManifestMalformed, Err: err}
	}
	if res.Valid {
		return nil
	}
	return &errors.ManifestError{Kind: errors.KindManifestShapeInvalid, Err: shapeError(res.Errors)}
}

func shapeError(issues []entities.ValidationError) error {
	msgs := make([]string, 0, len(issues))
	for _, e := range issues {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func malformed(err error) error {
	return &errors.ManifestError{Kind: errors.KindManifestMalformed, Err: err}
}
