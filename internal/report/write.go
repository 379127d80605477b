// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/dandictl/dandictl/internal/log"
	"gopkg.in/yaml.v3"
)

// CreateOrReplaceDir recreates the given directory: an existing directory is
// removed first, and an existing non-directory path is an error.
func CreateOrReplaceDir(path string) error {
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("output path %s exists and is not a directory", path)
		}
		log.Debugf("removing existing output directory: %s", path)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove existing output directory %s: %w", path, err)
		}
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", path, err)
	}

	return nil
}

// WriteData writes the given data to <outputDir>/<baseName>.json and
// <outputDir>/<baseName>.yaml. Empty data writes nothing, to avoid
// cluttering the report tree with empty files.
func WriteData(data interface{}, outputDir, baseName string) error {
	if isEmpty(data) {
		return nil
	}

	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", baseName, err)
	}

	jsonPath := filepath.Join(outputDir, baseName+".json")
	if err := os.WriteFile(jsonPath, jsonBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", jsonPath, err)
	}

	// Round-trip through the JSON form so the YAML rendering matches what the
	// JSON file contains, field names included.
	var plain interface{}
	if err := json.Unmarshal(jsonBytes, &plain); err != nil {
		return fmt.Errorf("failed to rebuild %s for YAML output: %w", baseName, err)
	}

	yamlBytes, err := yaml.Marshal(plain)
	if err != nil {
		return fmt.Errorf("failed to marshal %s to YAML: %w", baseName, err)
	}

	yamlPath := filepath.Join(outputDir, baseName+".yaml")
	if err := os.WriteFile(yamlPath, yamlBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", yamlPath, err)
	}

	return nil
}

// WriteDandisetReports persists a collection of dandiset validation reports
// as a JSON array at the given path.
func WriteDandisetReports(reports []DandisetReport, path string) error {
	return writeCollection(reports, path)
}

// WriteAssetReports persists a collection of asset validation reports as a
// JSON array at the given path.
func WriteAssetReports(reports []AssetReport, path string) error {
	return writeCollection(reports, path)
}

func writeCollection(reports interface{}, path string) error {
	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report collection: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report collection %s: %w", path, err)
	}
	return nil
}

// isEmpty reports whether data would serialize to nothing worth keeping:
// nil, or a zero-length slice, map or string.
func isEmpty(data interface{}) bool {
	if data == nil {
		return true
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		return v.Len() == 0
	default:
		return false
	}
}
