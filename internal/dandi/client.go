// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package dandi is a minimal client for the DANDI archive REST API, covering
// the listing and raw-metadata endpoints the validation commands need.
package dandi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"

	"github.com/dandictl/dandictl/internal/config"
	"github.com/dandictl/dandictl/internal/log"
)

// Built-in instance names. Anything else is looked up in the configuration
// under instances.<name>.api_url, and a value containing "://" is taken as a
// literal base URL.
var builtinInstances = map[string]string{
	"dandi":         "https://api.dandiarchive.org/api",
	"dandi-staging": "https://api-staging.dandiarchive.org/api",
}

// ResolveInstance maps a DANDI instance name to its API base URL.
func ResolveInstance(name string) (string, error) {
	if strings.Contains(name, "://") {
		return strings.TrimRight(name, "/"), nil
	}
	if u, err := config.GetString("instances." + name + ".api_url"); err == nil {
		return strings.TrimRight(u, "/"), nil
	}
	if u, ok := builtinInstances[name]; ok {
		return u, nil
	}
	return "", fmt.Errorf("unknown DANDI instance: %s", name)
}

// VersionInfo is the API's view of one dandiset version.
type VersionInfo struct {
	Version  string
	Status   string
	Modified time.Time
}

// Dandiset is one entry of the dandiset listing.
type Dandiset struct {
	Identifier                 string
	DraftVersion               *VersionInfo
	MostRecentPublishedVersion *VersionInfo
}

// AssetStub is one entry of an asset listing. Idx is the position of the
// asset in the listing order.
type AssetStub struct {
	AssetID string
	Path    string
	Idx     int
}

// Client talks to one DANDI API instance.
type Client struct {
	baseURL  string
	hc       *http.Client
	pageSize int
}

// NewClient returns a Client for the given API base URL.
func NewClient(baseURL string) *Client {
	pageSize, _ := config.GetInt("page_size", 100)
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		hc:       &http.Client{Timeout: 60 * time.Second},
		pageSize: pageSize,
	}
}

// Dandisets lists all dandisets of the instance in identifier order. When
// includeUnpublished is false, dandisets that have never been published and
// only carry a draft are still included; the flag mirrors the API's "draft"
// toggle which also returns dandisets with nothing but an empty draft.
func (c *Client) Dandisets(ctx context.Context, includeUnpublished bool) ([]Dandiset, error) {
	next := fmt.Sprintf("%s/dandisets/?order=id&page_size=%d&draft=%t",
		c.baseURL, c.pageSize, includeUnpublished)

	var dandisets []Dandiset
	for next != "" {
		body, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}

		doc := gjson.ParseBytes(body)
		for _, result := range doc.Get("results").Array() {
			dandisets = append(dandisets, Dandiset{
				Identifier:                 result.Get("identifier").String(),
				DraftVersion:               versionInfo(result.Get("draft_version")),
				MostRecentPublishedVersion: versionInfo(result.Get("most_recent_published_version")),
			})
		}
		next = doc.Get("next").String()
	}

	log.Debugf("listed %d dandisets", len(dandisets))
	return dandisets, nil
}

// RawVersionMetadata fetches the raw metadata record of a dandiset version.
func (c *Client) RawVersionMetadata(ctx context.Context, id, version string) ([]byte, error) {
	u := fmt.Sprintf("%s/dandisets/%s/versions/%s/",
		c.baseURL, url.PathEscape(id), url.PathEscape(version))
	return c.get(ctx, u)
}

// Assets lists the assets of a dandiset version in listing order.
func (c *Client) Assets(ctx context.Context, id, version string) ([]AssetStub, error) {
	next := fmt.Sprintf("%s/dandisets/%s/versions/%s/assets/?order=created&page_size=%d",
		c.baseURL, url.PathEscape(id), url.PathEscape(version), c.pageSize)

	var assets []AssetStub
	for next != "" {
		body, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}

		doc := gjson.ParseBytes(body)
		for _, result := range doc.Get("results").Array() {
			assets = append(assets, AssetStub{
				AssetID: result.Get("asset_id").String(),
				Path:    result.Get("path").String(),
				Idx:     len(assets),
			})
		}
		next = doc.Get("next").String()
	}

	return assets, nil
}

// RawAssetMetadata fetches the raw metadata record of one asset of a
// dandiset version.
func (c *Client) RawAssetMetadata(ctx context.Context, id, version, assetID string) ([]byte, error) {
	u := fmt.Sprintf("%s/dandisets/%s/versions/%s/assets/%s/",
		c.baseURL, url.PathEscape(id), url.PathEscape(version), url.PathEscape(assetID))
	return c.get(ctx, u)
}

// get performs one GET with exponential backoff on transient failures.
// Client errors (4xx) are permanent and not retried.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	var body []byte

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.hc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(fmt.Errorf("GET %s: %s", u, resp.Status))
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("GET %s: %s", u, resp.Status)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return nil, err
	}
	return body, nil
}

func versionInfo(v gjson.Result) *VersionInfo {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	modified, _ := time.Parse(time.RFC3339, v.Get("modified").String())
	return &VersionInfo{
		Version:  v.Get("version").String(),
		Status:   v.Get("status").String(),
		Modified: modified,
	}
}
