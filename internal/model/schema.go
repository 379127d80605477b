// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	gen "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dandictl/dandictl/internal/report"
)

// CompiledSchema is the JSON schema derived from a metadata model, compiled
// once at process start and passed by reference into every SchemaValidator
// that needs it.
type CompiledSchema struct {
	name     string
	document []byte
	schema   *jsonschema.Schema
}

// CompileDandisetSchema derives and compiles the dandiset metadata schema.
func CompileDandisetSchema() (*CompiledSchema, error) {
	return compile("dandiset.schema.json", &Dandiset{})
}

// CompileAssetSchema derives and compiles the asset metadata schema.
func CompileAssetSchema() (*CompiledSchema, error) {
	return compile("asset.schema.json", &Asset{})
}

func compile(name string, model interface{}) (*CompiledSchema, error) {
	reflector := gen.Reflector{ExpandedStruct: true}
	document, err := json.MarshalIndent(reflector.Reflect(model), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize derived schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(document)); err != nil {
		return nil, fmt.Errorf("failed to add derived schema %s: %w", name, err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile derived schema %s: %w", name, err)
	}

	return &CompiledSchema{name: name, document: document, schema: schema}, nil
}

// Name returns the file name of the derived schema.
func (s *CompiledSchema) Name() string {
	return s.name
}

// Document returns the derived schema as a JSON document.
func (s *CompiledSchema) Document() []byte {
	return s.document
}

// SchemaValidator validates raw metadata records against a compiled derived
// schema. Like the model validator, schema violations of the metadata are
// captured as error records, never raised.
type SchemaValidator struct {
	cs *CompiledSchema
}

// NewSchemaValidator returns a SchemaValidator bound to the given compiled
// schema.
func NewSchemaValidator(cs *CompiledSchema) *SchemaValidator {
	return &SchemaValidator{cs: cs}
}

// Validate validates one raw metadata record and returns the flattened leaf
// violations.
func (v *SchemaValidator) Validate(raw []byte) []report.JsonschemaErr {
	var instance interface{}
	if err := json.Unmarshal(raw, &instance); err != nil {
		return []report.JsonschemaErr{{
			Message:            err.Error(),
			AbsolutePath:       []interface{}{},
			AbsoluteSchemaPath: []interface{}{},
		}}
	}

	err := v.cs.schema.Validate(instance)
	if err == nil {
		return []report.JsonschemaErr{}
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		// Validate only ever fails with a ValidationError for a decoded
		// instance; anything else is a programming error.
		panic(err)
	}

	var records []report.JsonschemaErr
	flattenCauses(verr, &records)
	return records
}

// flattenCauses walks the cause tree and records the leaves, which carry the
// actual violations.
func flattenCauses(verr *jsonschema.ValidationError, records *[]report.JsonschemaErr) {
	if len(verr.Causes) == 0 {
		schemaPath := pointerSegments(verr.KeywordLocation)
		*records = append(*records, report.JsonschemaErr{
			Message:            verr.Message,
			AbsolutePath:       pointerSegments(verr.InstanceLocation),
			AbsoluteSchemaPath: schemaPath,
			Validator:          lastKeyword(schemaPath),
		})
		return
	}
	for _, cause := range verr.Causes {
		flattenCauses(cause, records)
	}
}

// pointerSegments splits a JSON pointer into typed segments: property names
// stay strings, array indices become integers.
func pointerSegments(pointer string) []interface{} {
	if pointer == "" || pointer == "/" {
		return []interface{}{}
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	segments := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if idx, err := strconv.Atoi(part); err == nil {
			segments = append(segments, idx)
		} else {
			segments = append(segments, part)
		}
	}
	return segments
}

// lastKeyword returns the trailing non-index segment of a schema path, which
// names the violated keyword.
func lastKeyword(schemaPath []interface{}) string {
	for i := len(schemaPath) - 1; i >= 0; i-- {
		if s, ok := schemaPath[i].(string); ok {
			return s
		}
	}
	return ""
}
