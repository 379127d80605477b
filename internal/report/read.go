// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// File names of the persisted report collections inside a reports directory.
const (
	DandisetReportsFile = "dandiset_validation_reports.json"
	AssetReportsFile    = "asset_validation_reports.json"
)

// ReadDandisetReports reads a persisted collection of dandiset validation
// reports. A missing or malformed file is a fatal input error.
func ReadDandisetReports(path string) ([]DandisetReport, error) {
	data, err := readReportsFile(path)
	if err != nil {
		return nil, err
	}

	var reports []DandisetReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("failed to parse report collection %s: %w", path, err)
	}

	for i := range reports {
		if err := normalizeKind(&reports[i].Kind, KindDandiset); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return reports, nil
}

// ReadAssetReports reads a persisted collection of asset validation reports.
func ReadAssetReports(path string) ([]AssetReport, error) {
	data, err := readReportsFile(path)
	if err != nil {
		return nil, err
	}

	var reports []AssetReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("failed to parse report collection %s: %w", path, err)
	}

	for i := range reports {
		if err := normalizeKind(&reports[i].Kind, KindAsset); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	return reports, nil
}

func readReportsFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("there is no report file at %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file %s: %w", path, err)
	}
	return data, nil
}
