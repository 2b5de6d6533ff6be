// Package upload copies report artifacts to S3.
package upload

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3svc "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pankaj-dahiya-devops/secops-toolkit/internal/providers/aws/common"
)

// Target is a parsed s3://bucket/prefix location.
type Target struct {
	Bucket string
	Prefix string
}

// ParseTarget parses an s3://bucket[/prefix] URI.
func ParseTarget(uri string) (Target, error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return Target{}, fmt.Errorf("upload target %q: must start with s3://", uri)
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Target{}, fmt.Errorf("upload target %q: missing bucket", uri)
	}
	return Target{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// Key returns the object key for a local file: the prefix joined with the
// file's base name.
func (t Target) Key(file string) string {
	if t.Prefix == "" {
		return filepath.Base(file)
	}
	return path.Join(t.Prefix, filepath.Base(file))
}

// String returns the s3:// form of t.
func (t Target) String() string {
	if t.Prefix == "" {
		return "s3://" + t.Bucket
	}
	return "s3://" + t.Bucket + "/" + t.Prefix
}

// Uploader puts files into one S3 target.
type Uploader struct {
	client common.S3Client
	target Target
}

// NewUploader returns an Uploader writing to target with client.
func NewUploader(client common.S3Client, target Target) *Uploader {
	return &Uploader{client: client, target: target}
}

// Upload puts every file and returns the resulting s3:// URIs in order. It
// stops at the first failure.
func (u *Uploader) Upload(ctx context.Context, paths []string) ([]string, error) {
	uris := make([]string, 0, len(paths))
	for _, p := range paths {
		key := u.target.Key(p)
		if err := u.put(ctx, p, key); err != nil {
			return uris, err
		}
		uris = append(uris, "s3://"+u.target.Bucket+"/"+key)
	}
	return uris, nil
}

func (u *Uploader) put(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	in := &s3svc.PutObjectInput{
		Bucket: aws.String(u.target.Bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(filepath.Ext(file)); ct != "" {
		in.ContentType = aws.String(ct)
	}
	if _, err := u.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", file, u.target.Bucket, key, err)
	}
	return nil
}
