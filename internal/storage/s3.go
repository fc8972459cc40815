// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage mirrors generated storefront bundles to S3-compatible
// object storage so they can be served from a CDN. It wraps the AWS SDK v2
// and is configured for path-style access (required by CEPH/Hetzner).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// sitesPrefix is the key prefix every bundle is stored under.
const sitesPrefix = "sites"

// bundleFiles are mirrored in this order so index.html lands last.
var bundleFiles = []struct {
	name        string
	contentType string
}{
	{"styles.css", "text/css; charset=utf-8"},
	{"app.js", "text/javascript; charset=utf-8"},
	{"index.html", "text/html; charset=utf-8"},
}

// Client wraps an S3 client for bundle operations on a single bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for public files
}

// New creates an S3 storage client configured for CEPH/Hetzner with
// path-style addressing. Returns (nil, nil) if endpoint or credentials
// are empty, allowing the app to start without storage.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required when storage is configured")
	}

	// Strip trailing slash from endpoint for consistent URL building.
	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores a public-read object in the bundle bucket.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// Delete removes an object from the bundle bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, key, err)
	}
	return nil
}

// PublishSite uploads the bundle in dir under sites/<storeID>/.
func (c *Client) PublishSite(ctx context.Context, storeID int64, dir string) error {
	for _, f := range bundleFiles {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return fmt.Errorf("read bundle file %s: %w", f.name, err)
		}
		key := SiteKey(storeID, f.name)
		if err := c.Upload(ctx, key, f.contentType, bytes.NewReader(data), int64(len(data))); err != nil {
			return err
		}
	}
	return nil
}

// RemoveSite deletes every bundle object of a store.
func (c *Client) RemoveSite(ctx context.Context, storeID int64) error {
	for _, f := range bundleFiles {
		if err := c.Delete(ctx, SiteKey(storeID, f.name)); err != nil {
			return err
		}
	}
	return nil
}

// FileURL returns the public URL for a key in the bundle bucket.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// SiteURL returns the public URL of a store's mirrored index.html.
func (c *Client) SiteURL(storeID int64) string {
	return c.FileURL(SiteKey(storeID, "index.html"))
}

// Bucket returns the name of the bundle bucket.
func (c *Client) Bucket() string {
	return c.bucket
}

// SiteKey returns the object key of a bundle file.
func SiteKey(storeID int64, name string) string {
	return sitesPrefix + "/" + strconv.FormatInt(storeID, 10) + "/" + name
}
