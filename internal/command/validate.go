// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/dandictl/dandictl/internal/dandi"
	"github.com/dandictl/dandictl/internal/log"
	"github.com/dandictl/dandictl/internal/md"
	"github.com/dandictl/dandictl/internal/meta"
	"github.com/dandictl/dandictl/internal/model"
	"github.com/dandictl/dandictl/internal/output"
	"github.com/dandictl/dandictl/internal/report"
)

func validateCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate dandiset metadata with the model and derived schema validators",
		UsageText: "dandictl validate [options]",
		Metadata: map[string]any{
			"meta": m,
		},
		Flags: append([]cli.Flag{
			NewInstanceFlag("validate", m.Config.Source),
			NewOutputDirFlag(""),
			&cli.BoolFlag{
				Name:    "include-unpublished",
				Aliases: []string{"u"},
				Usage:   "include dandisets that have never been published",
				Value:   false,
			},
			&cli.BoolFlag{
				Name:  "assets",
				Usage: "also validate asset metadata",
				Value: false,
			},
		}, NewGlobalFlags()...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: validateCommandAction,
	}
}

// validateCommandAction walks every dandiset of the selected instance,
// validates the metadata of its draft and latest published version with both
// validators, and writes the validation report tree plus the two report
// collection files consumed by the diff subcommand.
func validateCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)

	instance := cmd.String("instance")
	baseURL, err := dandi.ResolveInstance(instance)
	if err != nil {
		return err
	}

	outputDir := cmd.String("output")
	if outputDir == "" {
		outputDir = instanceLabel(instance) + "-reports"
	}
	outputDir = ResolveDir(m, outputDir)

	log.Infof("creating validation report directory %s", outputDir)
	if err := report.CreateOrReplaceDir(outputDir); err != nil {
		return err
	}

	dandisetSchema, err := model.CompileDandisetSchema()
	if err != nil {
		return err
	}
	assetSchema, err := model.CompileAssetSchema()
	if err != nil {
		return err
	}
	for _, s := range []*model.CompiledSchema{dandisetSchema, assetSchema} {
		if err := writeSchemaDoc(s, outputDir); err != nil {
			return err
		}
	}

	v := validatorSet{
		client:         dandi.NewClient(baseURL),
		modelValidator: model.NewModelValidator(),
		dandisetSchema: model.NewSchemaValidator(dandisetSchema),
		assetSchema:    model.NewSchemaValidator(assetSchema),
	}

	dandisets, err := v.client.Dandisets(ctx, cmd.Bool("include-unpublished"))
	if err != nil {
		return err
	}

	dandisetReports := []report.DandisetReport{}
	assetReports := []report.AssetReport{}
	var summaryRows []string

	for _, ds := range dandisets {
		for _, version := range dandisetVersions(ds) {
			dr, row, err := v.validateDandisetVersion(ctx, ds.Identifier, version, outputDir)
			if err != nil {
				return err
			}
			dandisetReports = append(dandisetReports, dr)
			summaryRows = append(summaryRows, row)

			if cmd.Bool("assets") {
				ars, err := v.validateAssets(ctx, ds.Identifier, version.Version, outputDir)
				if err != nil {
					return err
				}
				assetReports = append(assetReports, ars...)
			}
		}
		log.Infof("validated dandiset %s", ds.Identifier)
	}

	if err := report.WriteDandisetReports(dandisetReports,
		filepath.Join(outputDir, report.DandisetReportsFile)); err != nil {
		return err
	}
	if err := report.WriteAssetReports(assetReports,
		filepath.Join(outputDir, report.AssetReportsFile)); err != nil {
		return err
	}
	if err := writeValidationSummary(summaryRows, outputDir); err != nil {
		return err
	}

	renderValidationTotals(dandisetReports, assetReports, cmd)
	log.Infof("validation of instance %s is complete", instance)
	return nil
}

// validatorSet bundles the API client with the validators so the per-record
// helpers don't take five arguments each.
type validatorSet struct {
	client         *dandi.Client
	modelValidator *model.ModelValidator
	dandisetSchema *model.SchemaValidator
	assetSchema    *model.SchemaValidator
}

// dandisetVersions returns the versions of a dandiset worth validating: the
// draft and, when present, the most recent published version.
func dandisetVersions(ds dandi.Dandiset) []dandi.VersionInfo {
	var versions []dandi.VersionInfo
	if ds.DraftVersion != nil {
		versions = append(versions, *ds.DraftVersion)
	}
	if ds.MostRecentPublishedVersion != nil {
		versions = append(versions, *ds.MostRecentPublishedVersion)
	}
	return versions
}

func (v validatorSet) validateDandisetVersion(
	ctx context.Context,
	id string,
	version dandi.VersionInfo,
	outputDir string) (report.DandisetReport, string, error) {

	raw, err := v.client.RawVersionMetadata(ctx, id, version.Version)
	if err != nil {
		return report.DandisetReport{}, "", err
	}

	dr := report.DandisetReport{
		Kind:            report.KindDandiset,
		DandisetID:      id,
		DandisetVersion: version.Version,
		PydanticErrs:    v.modelValidator.ValidateDandiset(raw),
		JsonschemaErrs:  v.dandisetSchema.Validate(raw),
	}

	dir := filepath.Join(outputDir, id, version.Version)
	if err := writeRecordFiles(raw, dr.PydanticErrs, dr.JsonschemaErrs, dir); err != nil {
		return report.DandisetReport{}, "", err
	}

	row := md.GenRow(
		fmt.Sprintf("[%s](./%s/%s/)", id, id, version.Version),
		md.Escape(version.Version),
		md.Escape(gjson.GetBytes(raw, "schemaVersion").String()),
		md.Escape(version.Status),
		md.Escape(humanize.Time(version.Modified)),
		strconv.Itoa(len(dr.PydanticErrs)),
		strconv.Itoa(len(dr.JsonschemaErrs)),
	)
	return dr, row, nil
}

func (v validatorSet) validateAssets(
	ctx context.Context,
	id, version string,
	outputDir string) ([]report.AssetReport, error) {

	assets, err := v.client.Assets(ctx, id, version)
	if err != nil {
		return nil, err
	}

	var reports []report.AssetReport
	for _, a := range assets {
		raw, err := v.client.RawAssetMetadata(ctx, id, version, a.AssetID)
		if err != nil {
			return nil, err
		}

		ar := report.AssetReport{
			Kind:            report.KindAsset,
			DandisetID:      id,
			DandisetVersion: version,
			AssetID:         &a.AssetID,
			AssetPath:       &a.Path,
			AssetIdx:        a.Idx,
			PydanticErrs:    v.modelValidator.ValidateAsset(raw),
			JsonschemaErrs:  v.assetSchema.Validate(raw),
		}
		reports = append(reports, ar)

		dir := filepath.Join(outputDir, id, version, "assets", strconv.Itoa(a.Idx))
		if err := writeRecordFiles(raw, ar.PydanticErrs, ar.JsonschemaErrs, dir); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

// writeRecordFiles writes the metadata record and its validation errors into
// the record's report directory, each in JSON and YAML.
func writeRecordFiles(
	raw []byte,
	pydErrs []report.PydanticErr,
	jsErrs []report.JsonschemaErr,
	dir string) error {

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", dir, err)
	}

	var metadata interface{}
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return fmt.Errorf("failed to decode metadata for %s: %w", dir, err)
	}

	if err := report.WriteData(metadata, dir, "metadata"); err != nil {
		return err
	}
	if err := report.WriteData(pydErrs, dir, "pydantic_validation_errs"); err != nil {
		return err
	}
	return report.WriteData(jsErrs, dir, "jsonschema_validation_errs")
}

// writeSchemaDoc writes a derived schema document into the report tree so a
// report consumer can see exactly what the records were validated against.
func writeSchemaDoc(s *model.CompiledSchema, outputDir string) error {
	path := filepath.Join(outputDir, s.Name())
	if err := os.WriteFile(path, s.Document(), 0o644); err != nil {
		return fmt.Errorf("failed to write schema document %s: %w", path, err)
	}
	return nil
}

func writeValidationSummary(rows []string, outputDir string) error {
	var b strings.Builder
	b.WriteString(md.GenHeaderAndAlignmentRows([]string{
		"dandiset", "version", "schema version", "api status", "modified",
		"pydantic errs", "jsonschema errs",
	}))
	for _, row := range rows {
		b.WriteString(row)
	}

	path := filepath.Join(outputDir, "summary.md")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", path, err)
	}
	return nil
}

func renderValidationTotals(
	dandisetReports []report.DandisetReport,
	assetReports []report.AssetReport,
	cmd *cli.Command) {

	var dsPyd, dsJS, aPyd, aJS int
	for _, r := range dandisetReports {
		dsPyd += len(r.PydanticErrs)
		dsJS += len(r.JsonschemaErrs)
	}
	for _, r := range assetReports {
		aPyd += len(r.PydanticErrs)
		aJS += len(r.JsonschemaErrs)
	}

	t := output.Table{
		Title: "validation error totals",
		Rows: [][]string{
			{"dandiset", output.Count(len(dandisetReports)), output.Count(dsPyd), output.Count(dsJS)},
			{"asset", output.Count(len(assetReports)), output.Count(aPyd), output.Count(aJS)},
		},
	}
	if cmd.Bool("titles") {
		t.Headers = []string{"group", "records", "pydantic errs", "jsonschema errs"}
	}
	output.Write(t, cmd.Bool("color"), os.Stdout)
}

// instanceLabel derives a filesystem-friendly label from an instance name or
// URL for the default output directory.
func instanceLabel(instance string) string {
	if i := strings.Index(instance, "://"); i >= 0 {
		instance = instance[i+3:]
	}
	instance = strings.ReplaceAll(instance, "/", "-")
	return strings.Trim(instance, "-")
}
