// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dandictl/dandictl/internal/report"
)

// ModelValidator validates raw metadata records against the struct metadata
// models. Validation failures of the metadata are the measured output, so
// they are always captured as error records and never surfaced as Go errors.
type ModelValidator struct {
	v *validator.Validate
}

// NewModelValidator returns a ModelValidator whose error locations use the
// JSON field names of the metadata models.
func NewModelValidator() *ModelValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ModelValidator{v: v}
}

// ValidateDandiset validates a raw dandiset metadata record.
func (m *ModelValidator) ValidateDandiset(raw []byte) []report.PydanticErr {
	var ds Dandiset
	return m.validate(raw, &ds)
}

// ValidateAsset validates a raw asset metadata record.
func (m *ModelValidator) ValidateAsset(raw []byte) []report.PydanticErr {
	var a Asset
	return m.validate(raw, &a)
}

func (m *ModelValidator) validate(raw []byte, target interface{}) []report.PydanticErr {
	if err := json.Unmarshal(raw, target); err != nil {
		return []report.PydanticErr{decodeErrRecord(err)}
	}

	err := m.v.Struct(target)
	if err == nil {
		return []report.PydanticErr{}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError only happens on a non-struct target, which
		// would be a programming error here.
		panic(err)
	}

	records := make([]report.PydanticErr, 0, len(verrs))
	for _, fe := range verrs {
		records = append(records, report.PydanticErr{
			"type": fe.Tag(),
			"msg":  fieldErrMessage(fe),
			"loc":  parseLoc(fe.Namespace()),
		})
	}
	return records
}

// decodeErrRecord converts a JSON decoding failure into an error record. A
// record that cannot even be decoded into the model is a validation failure
// of the record, not of this program.
func decodeErrRecord(err error) report.PydanticErr {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return report.PydanticErr{
			"type": "type_error",
			"msg":  fmt.Sprintf("value of type %s is not assignable to %s", typeErr.Value, typeErr.Type),
			"loc":  parseDottedLoc(typeErr.Field),
		}
	}
	return report.PydanticErr{
		"type": "json_invalid",
		"msg":  err.Error(),
		"loc":  []interface{}{},
	}
}

// fieldErrMessage renders a short, stable message for a field error.
func fieldErrMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "min":
		return fmt.Sprintf("Value should have at least %s items or characters", fe.Param())
	case "max":
		return fmt.Sprintf("Value should have at most %s items or characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Value should be one of: %s", fe.Param())
	case "eq":
		return fmt.Sprintf("Value should be equal to %s", fe.Param())
	case "startswith":
		return fmt.Sprintf("Value should start with %q", fe.Param())
	case "email":
		return "Value is not a valid email address"
	case "url":
		return "Value is not a valid URL"
	case "uuid":
		return "Value is not a valid UUID"
	default:
		return fmt.Sprintf("Value failed the %q constraint", fe.Tag())
	}
}

// parseLoc converts a field-error namespace such as
// "Dandiset.contributor[0].name" to path segments, dropping the root model
// name. Array indices become integer segments.
func parseLoc(namespace string) []interface{} {
	parts := strings.Split(namespace, ".")
	if len(parts) > 0 {
		parts = parts[1:] // drop the model name
	}

	loc := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		for {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				if part != "" {
					loc = append(loc, part)
				}
				break
			}

			if open > 0 {
				loc = append(loc, part[:open])
			}

			close_ := strings.IndexByte(part, ']')
			if close_ < 0 {
				loc = append(loc, part[open:])
				break
			}

			if idx, err := strconv.Atoi(part[open+1 : close_]); err == nil {
				loc = append(loc, idx)
			} else {
				loc = append(loc, part[open+1:close_])
			}
			part = part[close_+1:]
		}
	}
	return loc
}

// parseDottedLoc converts an encoding/json field path such as
// "contributor.0.name" to path segments with integer array indices.
func parseDottedLoc(field string) []interface{} {
	if field == "" {
		return []interface{}{}
	}
	parts := strings.Split(field, ".")
	loc := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		if idx, err := strconv.Atoi(part); err == nil {
			loc = append(loc, idx)
		} else {
			loc = append(loc, part)
		}
	}
	return loc
}
