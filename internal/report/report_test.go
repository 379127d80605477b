// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDandisetReport() DandisetReport {
	return DandisetReport{
		Kind:            KindDandiset,
		DandisetID:      "000003",
		DandisetVersion: "draft",
		PydanticErrs: []PydanticErr{
			{
				"type": "missing",
				"msg":  "Field required",
				"loc":  []interface{}{"about", float64(0), "name"},
			},
		},
		JsonschemaErrs: []JsonschemaErr{
			{
				Message:            "expected string, but got null",
				AbsolutePath:       []interface{}{"about", float64(0), "name"},
				AbsoluteSchemaPath: []interface{}{"properties", "about", "items", "type"},
				Validator:          "type",
			},
		},
	}
}

func TestReportCollectionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DandisetReportsFile)

	want := []DandisetReport{sampleDandisetReport()}
	require.NoError(t, WriteDandisetReports(want, path))

	got, err := ReadDandisetReports(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadDandisetReportsMissingFile(t *testing.T) {
	_, err := ReadDandisetReports(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no report file")
}

func TestReadAssetReportsFillsKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, AssetReportsFile)

	// A collection written without the discriminant field.
	raw := `[{"dandiset_identifier":"000001","dandiset_version":"draft","asset_idx":3,` +
		`"asset_id":null,"asset_path":null,` +
		`"pydantic_validation_errs":[],"jsonschema_validation_errs":[]}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	got, err := ReadAssetReports(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, KindAsset, got[0].Kind)
	assert.Equal(t, 3, got[0].AssetIdx)
}

func TestReadRejectsForeignKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DandisetReportsFile)

	raw := `[{"report_type":"asset","dandiset_identifier":"000001","dandiset_version":"draft",` +
		`"pydantic_validation_errs":[],"jsonschema_validation_errs":[]}]`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	_, err := ReadDandisetReports(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report type")
}

func TestCreateOrReplaceDir(t *testing.T) {
	t.Run("replaces existing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "stale"), 0o755))

		require.NoError(t, CreateOrReplaceDir(dir))

		_, err := os.Stat(filepath.Join(dir, "stale"))
		assert.True(t, os.IsNotExist(err), "stale content should be gone")
	})

	t.Run("rejects non-directory path", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		err := CreateOrReplaceDir(file)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestWriteDataSkipsEmpty(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, WriteData([]PydanticErr{}, dir, "empty"))
	require.NoError(t, WriteData(nil, dir, "nil"))
	require.NoError(t, WriteData(map[string]interface{}{}, dir, "emptymap"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteDataBothSerializations(t *testing.T) {
	dir := t.TempDir()
	errs := sampleDandisetReport().PydanticErrs

	require.NoError(t, WriteData(errs, dir, "pydantic_validation_errs1"))

	jsonBytes, err := os.ReadFile(filepath.Join(dir, "pydantic_validation_errs1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(jsonBytes), `"Field required"`)

	yamlBytes, err := os.ReadFile(filepath.Join(dir, "pydantic_validation_errs1.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(yamlBytes), "Field required")
}

func TestKeyOrdering(t *testing.T) {
	keys := []Key{
		AssetKey("000010", "draft", 2),
		AssetKey("000010", "draft", 10),
		DandisetKey("000002", "draft"),
		DandisetKey("000002", "0.210831.2033"),
	}

	assert.True(t, keys[0].Less(keys[1]), "asset index compares numerically")
	assert.True(t, keys[3].Less(keys[2]), "versions compare as strings")
	assert.Equal(t, "000010/draft/10", keys[1].Path())
	assert.Equal(t, "000002/draft", keys[2].Path())
}
