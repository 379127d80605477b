// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diff

import (
	"fmt"
	"strings"

	"github.com/dandictl/dandictl/internal/errcount"
	"github.com/dandictl/dandictl/internal/report"
)

// Wildcard is the marker substituted for array-index path segments when
// categorizing errors, so errors differing only by array position collapse
// into one category.
const Wildcard = "[*]"

// wildcarded returns a copy of the path with every integer segment replaced
// by the wildcard marker. Whether a segment is an array index is inferred
// purely from its runtime type; a schema whose legitimate keys are numbers
// would be over-generalized by this, which is a known approximation.
func wildcarded(path []interface{}) []interface{} {
	out := make([]interface{}, len(path))
	for i, seg := range path {
		if isIndex(seg) {
			out[i] = Wildcard
		} else {
			out[i] = seg
		}
	}
	return out
}

func isIndex(seg interface{}) bool {
	switch seg.(type) {
	case int, int64, float64:
		return true
	default:
		return false
	}
}

// tupleString renders values as a tuple-like string. Nested slices render as
// nested tuples, so category keys get a stable, readable form such as
// ("missing", "Field required", ("about", "[*]", "name")).
func tupleString(values ...interface{}) string {
	parts := make([]string, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case []interface{}:
			parts[i] = tupleString(v...)
		case string:
			parts[i] = fmt.Sprintf("%q", v)
		case float64:
			parts[i] = fmt.Sprintf("%v", int64(v))
		default:
			parts[i] = fmt.Sprintf("%v", v)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// pydanticRep is the comparable representation of one model-validation
// error, paired with the path of the instance it pertains to.
type pydanticRep struct {
	errType string
	msg     string
	loc     []interface{}
	path    string
}

func newPydanticRep(err report.PydanticErr, path string) pydanticRep {
	rep := pydanticRep{path: path}
	if s, ok := err["type"].(string); ok {
		rep.errType = s
	}
	if s, ok := err["msg"].(string); ok {
		rep.msg = s
	}
	if loc, ok := err["loc"].([]interface{}); ok {
		rep.loc = loc
	}
	return rep
}

// Category erases array indices from the location, keeping type and message.
func (r pydanticRep) Category() string {
	return tupleString(r.errType, r.msg, wildcarded(r.loc))
}

func (r pydanticRep) Key() string {
	return tupleString(r.errType, r.msg, r.loc, r.path)
}

func (r pydanticRep) Path() string { return r.path }

// jsonschemaRep is the comparable representation of one schema-validation
// error, paired with the path of the instance it pertains to.
type jsonschemaRep struct {
	err  report.JsonschemaErr
	path string
}

// Category pairs the schema path with the index-erased instance path.
func (r jsonschemaRep) Category() string {
	return tupleString(r.err.AbsoluteSchemaPath, wildcarded(r.err.AbsolutePath))
}

func (r jsonschemaRep) Key() string {
	return tupleString(r.err.Message, r.err.AbsolutePath, r.err.AbsoluteSchemaPath, r.path)
}

func (r jsonschemaRep) Path() string { return r.path }

// errReps collects the error representations of both sides and both
// validator origins across the given diff reports.
func errReps(reports []Report) (pyd1, pyd2, js1, js2 []errcount.Rep, err error) {
	for _, r := range reports {
		key, keyErr := r.key()
		if keyErr != nil {
			return nil, nil, nil, nil, keyErr
		}
		path := key.Path()

		for _, e := range r.PydanticErrs1 {
			pyd1 = append(pyd1, newPydanticRep(e, path))
		}
		for _, e := range r.PydanticErrs2 {
			pyd2 = append(pyd2, newPydanticRep(e, path))
		}
		for _, e := range r.JsonschemaErrs1 {
			js1 = append(js1, jsonschemaRep{err: e, path: path})
		}
		for _, e := range r.JsonschemaErrs2 {
			js2 = append(js2, jsonschemaRep{err: e, path: path})
		}
	}
	return pyd1, pyd2, js1, js2, nil
}
