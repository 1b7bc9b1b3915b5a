// Package assets serves the 3D tooth models the chart viewer renders.
// Model meshes live in S3; metadata lives in Postgres so the viewer can
// resolve a tooth to the right mesh version without listing the bucket.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store reads and writes tooth model meshes in S3. If bucket is empty the
// store is disabled and the chart falls back to flat rendering.
type Store struct {
	bucket   string
	s3Client S3API
	logger   *slog.Logger
}

func NewStore(s3Client S3API, bucket string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{bucket: bucket, s3Client: s3Client, logger: logger}
}

// Enabled reports whether a bucket is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// modelKey is the canonical object layout: models/v{N}/{type}/{variant}.glb.
func modelKey(toothType dental.ToothType, variant string, version int) string {
	if variant == "" {
		variant = "default"
	}
	return fmt.Sprintf("models/v%d/%s/%s.glb", version, toothType, variant)
}

// UploadModel stores a mesh for a tooth type and returns its object key.
func (s *Store) UploadModel(ctx context.Context, toothType dental.ToothType, variant string, version int, mesh []byte) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("assets: store disabled")
	}
	if !dental.ValidToothType(toothType) {
		return "", fmt.Errorf("assets: unknown tooth type %q", toothType)
	}

	key := modelKey(toothType, variant, version)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(mesh),
		ContentType: aws.String("model/gltf-binary"),
	})
	if err != nil {
		return "", fmt.Errorf("assets: s3 put %s: %w", key, err)
	}

	s.logger.Info("uploaded tooth model",
		"tooth_type", string(toothType),
		"s3_key", key,
		"bytes", len(mesh),
	)
	return key, nil
}

// FetchModel returns the mesh bytes stored under key.
func (s *Store) FetchModel(ctx context.Context, key string) ([]byte, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("assets: store disabled")
	}

	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundErr(err) {
			return nil, ErrModelNotFound
		}
		return nil, fmt.Errorf("assets: s3 get %s: %w", key, err)
	}
	defer resp.Body.Close()

	mesh, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", key, err)
	}
	return mesh, nil
}

func isNotFoundErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "NoSuchKey") || strings.Contains(msg, "404") || strings.Contains(msg, "not found")
}
