package mapper

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	createSchema = "pet-create.json"
	updateSchema = "pet-update.json"
)

// ErrInvalidPayload signals a request body that is not a well-formed pet document.
var ErrInvalidPayload = errors.New("invalid pet payload")

// PayloadError carries per-field validation messages keyed by JSON pointer
// (without the leading slash; "body" for document-level problems).
type PayloadError struct {
	Fields map[string]string
}

func (e *PayloadError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidPayload, strings.Join(parts, "; "))
}

func (e *PayloadError) Unwrap() error { return ErrInvalidPayload }

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

func compiledSchema(name string) (*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		schemas = make(map[string]*jsonschema.Schema, 2)
		for _, file := range []string{createSchema, updateSchema} {
			raw, err := schemaFS.ReadFile("schemas/" + file)
			if err != nil {
				schemasErr = err
				return
			}
			if err := compiler.AddResource(file, bytes.NewReader(raw)); err != nil {
				schemasErr = fmt.Errorf("load schema %s: %w", file, err)
				return
			}
			compiled, err := compiler.Compile(file)
			if err != nil {
				schemasErr = fmt.Errorf("compile schema %s: %w", file, err)
				return
			}
			schemas[file] = compiled
		}
	})
	if schemasErr != nil {
		return nil, schemasErr
	}
	return schemas[name], nil
}

// validate checks body against the named schema and returns a *PayloadError
// describing every violation.
func validate(name string, body []byte) error {
	schema, err := compiledSchema(name)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return &PayloadError{Fields: map[string]string{"body": "malformed JSON: " + err.Error()}}
	}
	if decoder.More() {
		return &PayloadError{Fields: map[string]string{"body": "unexpected data after JSON document"}}
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			fields := map[string]string{}
			collectViolations(verr, fields)
			return &PayloadError{Fields: fields}
		}
		return &PayloadError{Fields: map[string]string{"body": err.Error()}}
	}
	return nil
}

func collectViolations(verr *jsonschema.ValidationError, fields map[string]string) {
	if len(verr.Causes) == 0 {
		key := strings.TrimPrefix(verr.InstanceLocation, "/")
		if key == "" {
			key = "body"
		}
		if _, seen := fields[key]; !seen {
			fields[key] = verr.Message
		}
		return
	}
	for _, cause := range verr.Causes {
		collectViolations(cause, fields)
	}
}
