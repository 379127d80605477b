// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"strconv"
)

// Kind discriminates the two report variants. Every report carries it
// explicitly so variant handling never relies on runtime type inspection.
type Kind string

const (
	KindDandiset Kind = "dandiset"
	KindAsset    Kind = "asset"
)

// PydanticErr is one model-validation error as a raw JSON object. The
// recognized keys are "type", "msg" and "loc"; any additional keys produced
// by the validator are carried through untouched.
type PydanticErr map[string]interface{}

// JsonschemaErr is one JSON-schema validation error. Path segments are
// strings for property names and integers for array indices.
type JsonschemaErr struct {
	Message            string        `json:"message"`
	AbsolutePath       []interface{} `json:"absolute_path"`
	AbsoluteSchemaPath []interface{} `json:"absolute_schema_path"`
	Validator          string        `json:"validator,omitempty"`
}

// DandisetReport is the validation report of one dandiset metadata instance
// at one version.
type DandisetReport struct {
	Kind            Kind            `json:"report_type"`
	DandisetID      string          `json:"dandiset_identifier"`
	DandisetVersion string          `json:"dandiset_version"`
	PydanticErrs    []PydanticErr   `json:"pydantic_validation_errs"`
	JsonschemaErrs  []JsonschemaErr `json:"jsonschema_validation_errs"`
}

// AssetReport is the validation report of one asset metadata instance.
// AssetIdx is the index of the asset in the containing listing of the
// dandiset version.
type AssetReport struct {
	Kind            Kind            `json:"report_type"`
	DandisetID      string          `json:"dandiset_identifier"`
	DandisetVersion string          `json:"dandiset_version"`
	AssetID         *string         `json:"asset_id"`
	AssetPath       *string         `json:"asset_path"`
	AssetIdx        int             `json:"asset_idx"`
	PydanticErrs    []PydanticErr   `json:"pydantic_validation_errs"`
	JsonschemaErrs  []JsonschemaErr `json:"jsonschema_validation_errs"`
}

// Key identifies one validated metadata instance within a report collection.
// AssetIdx is -1 for dandiset-level keys.
type Key struct {
	DandisetID string
	Version    string
	AssetIdx   int
}

// DandisetKey returns the key of a dandiset-level instance.
func DandisetKey(id, version string) Key {
	return Key{DandisetID: id, Version: version, AssetIdx: -1}
}

// AssetKey returns the key of an asset-level instance.
func AssetKey(id, version string, idx int) Key {
	return Key{DandisetID: id, Version: version, AssetIdx: idx}
}

// Less orders keys lexicographically on (identifier, version) with a numeric
// comparison on the asset index.
func (k Key) Less(other Key) bool {
	if k.DandisetID != other.DandisetID {
		return k.DandisetID < other.DandisetID
	}
	if k.Version != other.Version {
		return k.Version < other.Version
	}
	return k.AssetIdx < other.AssetIdx
}

// Path renders the key as the slash-joined path of the instance, e.g.
// "000003/draft" or "000003/draft/42".
func (k Key) Path() string {
	p := k.DandisetID + "/" + k.Version
	if k.AssetIdx >= 0 {
		p += "/" + strconv.Itoa(k.AssetIdx)
	}
	return p
}

// normalizeKind fills in a missing discriminant on records read from files
// written before the discriminant existed, and rejects a mismatched one.
func normalizeKind(got *Kind, want Kind) error {
	if *got == "" {
		*got = want
		return nil
	}
	if *got != want {
		return fmt.Errorf("unsupported report type: %q", *got)
	}
	return nil
}
