// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package model defines the Go rendition of the dandischema metadata models
// and the two validators run against every metadata instance: the struct
// model validator and the derived JSON-schema validator.
package model

// Contributor is a person or organization that contributed to a dandiset.
type Contributor struct {
	SchemaKey         string   `json:"schemaKey" validate:"required,oneof=Person Organization"`
	Name              string   `json:"name" validate:"required"`
	Email             string   `json:"email,omitempty" validate:"omitempty,email"`
	Identifier        string   `json:"identifier,omitempty"`
	RoleName          []string `json:"roleName,omitempty"`
	URL               string   `json:"url,omitempty" validate:"omitempty,url"`
	IncludeInCitation *bool    `json:"includeInCitation,omitempty"`
	AwardNumber       string   `json:"awardNumber,omitempty"`
}

// About is a topic a dandiset is about, such as a disorder or an anatomical
// structure.
type About struct {
	SchemaKey  string `json:"schemaKey,omitempty" validate:"omitempty,oneof=Disorder Anatomy GenericType"`
	Identifier string `json:"identifier,omitempty"`
	Name       string `json:"name,omitempty"`
}

// AccessRequirements describes the access status of a dandiset or asset.
type AccessRequirements struct {
	SchemaKey string `json:"schemaKey" validate:"required,eq=AccessRequirements"`
	Status    string `json:"status" validate:"required,oneof=dandi:OpenAccess dandi:EmbargoedAccess dandi:RestrictedAccess"`
}

// AssetsSummary is the summary of the assets belonging to a dandiset version.
type AssetsSummary struct {
	SchemaKey         string   `json:"schemaKey" validate:"required,eq=AssetsSummary"`
	NumberOfBytes     int64    `json:"numberOfBytes" validate:"min=0"`
	NumberOfFiles     int64    `json:"numberOfFiles" validate:"min=0"`
	DataStandard      []About  `json:"dataStandard,omitempty" validate:"omitempty,dive"`
	Species           []About  `json:"species,omitempty" validate:"omitempty,dive"`
	ApproachesAndMore []string `json:"-"`
}

// Dandiset is the metadata model of a dandiset at one version.
type Dandiset struct {
	ID            string               `json:"id,omitempty"`
	SchemaKey     string               `json:"schemaKey" validate:"required,eq=Dandiset"`
	SchemaVersion string               `json:"schemaVersion" validate:"required"`
	Identifier    string               `json:"identifier" validate:"required,startswith=DANDI:"`
	Name          string               `json:"name" validate:"required,max=150"`
	Description   string               `json:"description" validate:"required,max=3000"`
	Contributor   []Contributor        `json:"contributor" validate:"required,min=1,dive"`
	License       []string             `json:"license" validate:"required,min=1,dive,oneof=spdx:CC0-1.0 spdx:CC-BY-4.0 spdx:CC-BY-NC-4.0"`
	About         []About              `json:"about,omitempty" validate:"omitempty,dive"`
	StudyTarget   []string             `json:"studyTarget,omitempty"`
	Access        []AccessRequirements `json:"access,omitempty" validate:"omitempty,dive"`
	URL           string               `json:"url,omitempty" validate:"omitempty,url"`
	Citation      string               `json:"citation,omitempty"`
	AssetsSummary *AssetsSummary       `json:"assetsSummary,omitempty"`
	Version       string               `json:"version,omitempty"`
	DateCreated   string               `json:"dateCreated,omitempty"`
	DateModified  string               `json:"dateModified,omitempty"`
}

// Digest is the map of digest algorithm identifiers to digest values carried
// by an asset.
type Digest map[string]string

// Asset is the metadata model of one asset (file) of a dandiset version.
type Asset struct {
	ID               string               `json:"id,omitempty"`
	SchemaKey        string               `json:"schemaKey" validate:"required,eq=Asset"`
	SchemaVersion    string               `json:"schemaVersion" validate:"required"`
	Identifier       string               `json:"identifier" validate:"required,uuid"`
	Path             string               `json:"path" validate:"required"`
	ContentSize      int64                `json:"contentSize" validate:"required,min=1"`
	EncodingFormat   string               `json:"encodingFormat" validate:"required"`
	Digest           Digest               `json:"digest" validate:"required,min=1"`
	ContentURL       []string             `json:"contentUrl,omitempty" validate:"omitempty,dive,url"`
	Access           []AccessRequirements `json:"access,omitempty" validate:"omitempty,dive"`
	DateModified     string               `json:"dateModified,omitempty"`
	BlobDateModified string               `json:"blobDateModified,omitempty"`
}
