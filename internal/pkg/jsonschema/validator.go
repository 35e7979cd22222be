package jsonschema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var ErrInvalidDocument = errors.New("schema validation failed")

type Validator struct {
	schema *gojsonschema.Schema
}

// MustCompile compiles an inline JSON schema. It panics on a malformed schema,
// so call it from package init.
func MustCompile(schema string) *Validator {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return &Validator{schema: s}
}

func (v *Validator) ValidateBytes(doc []byte) error {
	return v.validate(gojsonschema.NewBytesLoader(doc))
}

// ValidateGo validates a Go value through its JSON encoding.
func (v *Validator) ValidateGo(doc any) error {
	return v.validate(gojsonschema.NewGoLoader(doc))
}

func (v *Validator) validate(l gojsonschema.JSONLoader) error {
	res, err := v.schema.Validate(l)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}
