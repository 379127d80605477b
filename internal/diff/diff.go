// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package diff aligns two collections of validation reports by entity,
// computes structural diffs of their error lists, and writes the diff-report
// tree with per-origin summaries.
package diff

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/dandictl/dandictl/internal/report"
)

// Report is the validation diff report of one metadata instance present in
// either of two report collections. The asset fields are only meaningful for
// the asset variant.
type Report struct {
	Kind            report.Kind `json:"report_type"`
	DandisetID      string      `json:"dandiset_identifier"`
	DandisetVersion string      `json:"dandiset_version"`
	AssetID         *string     `json:"asset_id,omitempty"`
	AssetPath       *string     `json:"asset_path,omitempty"`
	AssetIdx        *int        `json:"asset_idx,omitempty"`

	PydanticErrs1 []report.PydanticErr `json:"pydantic_validation_errs1"`
	PydanticErrs2 []report.PydanticErr `json:"pydantic_validation_errs2"`
	PydanticDiff  interface{}          `json:"pydantic_validation_errs_diff"`

	JsonschemaErrs1 []report.JsonschemaErr `json:"jsonschema_validation_errs1"`
	JsonschemaErrs2 []report.JsonschemaErr `json:"jsonschema_validation_errs2"`
	JsonschemaDiff  interface{}            `json:"jsonschema_validation_errs_diff"`
}

// key extracts the entity key of the diff report, handling each report
// variant exhaustively.
func (r Report) key() (report.Key, error) {
	switch r.Kind {
	case report.KindDandiset:
		return report.DandisetKey(r.DandisetID, r.DandisetVersion), nil
	case report.KindAsset:
		if r.AssetIdx == nil {
			return report.Key{}, fmt.Errorf("asset report for %s/%s is missing its asset index",
				r.DandisetID, r.DandisetVersion)
		}
		return report.AssetKey(r.DandisetID, r.DandisetVersion, *r.AssetIdx), nil
	default:
		return report.Key{}, fmt.Errorf("unsupported report type: %q", r.Kind)
	}
}

// BuildDandisetDiffs aligns two collections of dandiset validation reports
// by entity key and produces a diff report for every entity with at least
// one error on either side.
func BuildDandisetDiffs(reports1, reports2 []report.DandisetReport) ([]Report, error) {
	keyed1, err := keyDandisetReports(reports1)
	if err != nil {
		return nil, err
	}
	keyed2, err := keyDandisetReports(reports2)
	if err != nil {
		return nil, err
	}

	var out []Report
	for _, key := range unionKeys(keysOfDandiset(keyed1), keysOfDandiset(keyed2)) {
		r1, r2 := keyed1[key], keyed2[key]

		pyd1, js1 := splitDandisetErrs(r1)
		pyd2, js2 := splitDandisetErrs(r2)

		if len(pyd1) == 0 && len(pyd2) == 0 && len(js1) == 0 && len(js2) == 0 {
			continue
		}

		dr := Report{
			Kind:            report.KindDandiset,
			DandisetID:      key.DandisetID,
			DandisetVersion: key.Version,
			PydanticErrs1:   pyd1,
			PydanticErrs2:   pyd2,
			JsonschemaErrs1: js1,
			JsonschemaErrs2: js2,
		}
		if dr.PydanticDiff, err = structuralDiff(pyd1, pyd2); err != nil {
			return nil, err
		}
		if dr.JsonschemaDiff, err = structuralDiff(js1, js2); err != nil {
			return nil, err
		}
		out = append(out, dr)
	}
	return out, nil
}

// BuildAssetDiffs is the asset-level counterpart of BuildDandisetDiffs. The
// asset id and path are taken from whichever side has the report.
func BuildAssetDiffs(reports1, reports2 []report.AssetReport) ([]Report, error) {
	keyed1, err := keyAssetReports(reports1)
	if err != nil {
		return nil, err
	}
	keyed2, err := keyAssetReports(reports2)
	if err != nil {
		return nil, err
	}

	var out []Report
	for _, key := range unionKeys(keysOfAsset(keyed1), keysOfAsset(keyed2)) {
		r1, ok1 := keyed1[key]
		r2, ok2 := keyed2[key]

		pyd1, js1 := splitAssetErrs(r1, ok1)
		pyd2, js2 := splitAssetErrs(r2, ok2)

		if len(pyd1) == 0 && len(pyd2) == 0 && len(js1) == 0 && len(js2) == 0 {
			continue
		}

		idx := key.AssetIdx
		ar := Report{
			Kind:            report.KindAsset,
			DandisetID:      key.DandisetID,
			DandisetVersion: key.Version,
			AssetIdx:        &idx,
			PydanticErrs1:   pyd1,
			PydanticErrs2:   pyd2,
			JsonschemaErrs1: js1,
			JsonschemaErrs2: js2,
		}
		if ok1 {
			ar.AssetID, ar.AssetPath = r1.AssetID, r1.AssetPath
		} else {
			ar.AssetID, ar.AssetPath = r2.AssetID, r2.AssetPath
		}
		if ar.PydanticDiff, err = structuralDiff(pyd1, pyd2); err != nil {
			return nil, err
		}
		if ar.JsonschemaDiff, err = structuralDiff(js1, js2); err != nil {
			return nil, err
		}
		out = append(out, ar)
	}
	return out, nil
}

func keyDandisetReports(reports []report.DandisetReport) (map[report.Key]report.DandisetReport, error) {
	keyed := make(map[report.Key]report.DandisetReport, len(reports))
	for _, r := range reports {
		key := report.DandisetKey(r.DandisetID, r.DandisetVersion)
		if _, dup := keyed[key]; dup {
			return nil, fmt.Errorf("duplicate report entry for %s", key.Path())
		}
		keyed[key] = r
	}
	return keyed, nil
}

func keyAssetReports(reports []report.AssetReport) (map[report.Key]report.AssetReport, error) {
	keyed := make(map[report.Key]report.AssetReport, len(reports))
	for _, r := range reports {
		key := report.AssetKey(r.DandisetID, r.DandisetVersion, r.AssetIdx)
		if _, dup := keyed[key]; dup {
			return nil, fmt.Errorf("duplicate report entry for %s", key.Path())
		}
		keyed[key] = r
	}
	return keyed, nil
}

func keysOfDandiset(m map[report.Key]report.DandisetReport) []report.Key {
	keys := make([]report.Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func keysOfAsset(m map[report.Key]report.AssetReport) []report.Key {
	keys := make([]report.Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// unionKeys merges two key sets into one deterministically ordered slice.
func unionKeys(keys1, keys2 []report.Key) []report.Key {
	seen := make(map[report.Key]struct{}, len(keys1)+len(keys2))
	var union []report.Key
	for _, ks := range [][]report.Key{keys1, keys2} {
		for _, k := range ks {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				union = append(union, k)
			}
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i].Less(union[j]) })
	return union
}

func splitDandisetErrs(r report.DandisetReport) ([]report.PydanticErr, []report.JsonschemaErr) {
	return emptied(r.PydanticErrs), emptiedJS(r.JsonschemaErrs)
}

func splitAssetErrs(r report.AssetReport, present bool) ([]report.PydanticErr, []report.JsonschemaErr) {
	if !present {
		return []report.PydanticErr{}, []report.JsonschemaErr{}
	}
	return emptied(r.PydanticErrs), emptiedJS(r.JsonschemaErrs)
}

func emptied(errs []report.PydanticErr) []report.PydanticErr {
	if errs == nil {
		return []report.PydanticErr{}
	}
	return errs
}

func emptiedJS(errs []report.JsonschemaErr) []report.JsonschemaErr {
	if errs == nil {
		return []report.JsonschemaErr{}
	}
	return errs
}

// structuralDiff computes a deep structural diff of two error lists and
// returns it in the delta serialization, an empty map when the lists are
// structurally identical. The lists are wrapped in a single-key object
// because the differ compares objects, and the wrapping key is unwrapped
// from the delta before returning.
func structuralDiff(list1, list2 interface{}) (interface{}, error) {
	left := map[string]interface{}{"errs": toJSONValue(list1)}
	right := map[string]interface{}{"errs": toJSONValue(list2)}

	d := gojsondiff.New().CompareObjects(left, right)
	if !d.Modified() {
		return map[string]interface{}{}, nil
	}

	deltaJSON, err := formatter.NewDeltaFormatter().FormatAsJson(d)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize structural diff: %w", err)
	}
	if inner, ok := deltaJSON["errs"]; ok {
		return inner, nil
	}
	return map[string]interface{}{}, nil
}

// toJSONValue normalizes a value to its plain JSON form. Nil and empty
// slices normalize to an empty JSON array.
func toJSONValue(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		// The error lists always originate from JSON; this cannot happen for
		// well-formed input.
		panic(err)
	}
	var plain interface{}
	if err := json.Unmarshal(data, &plain); err != nil {
		panic(err)
	}
	if plain == nil {
		return []interface{}{}
	}
	return plain
}
