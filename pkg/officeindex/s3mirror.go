package officeindex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Mirror copies objects from a bucket/prefix into a workspace root before
// a refresh scans it, so OfficeIndex can serve a workspace whose source of
// truth lives in S3 without the scanner needing to know anything about S3.
// It only re-downloads objects whose ETag changed since the last sync.
type S3Mirror struct {
	client *s3.Client
	bucket string
	prefix string

	mu        sync.Mutex
	etagByKey map[string]string
}

// NewS3Mirror builds a mirror from cfg. Returns (nil, nil) when no bucket is
// configured, so callers can pass the result straight to officeindex.New.
func NewS3Mirror(ctx context.Context, cfg Config) (*S3Mirror, error) {
	if cfg.S3Bucket == "" {
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Mirror{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.S3Bucket,
		prefix:    cfg.S3Prefix,
		etagByKey: map[string]string{},
	}, nil
}

// Sync lists every object under the configured prefix and downloads any
// whose ETag is new or changed into workspaceRoot, preserving the object
// key as the relative path. Failures are returned as diagnostics rather
// than aborting the caller's refresh.
func (m *S3Mirror) Sync(ctx context.Context, workspaceRoot string) []string {
	if m == nil {
		return nil
	}

	var diagnostics []string

	paginator := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(m.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			diagnostics = appendDiagnostic(diagnostics, "s3-list-failed:"+classifyS3Error(err))
			break
		}

		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}

			etag := aws.ToString(object.ETag)

			m.mu.Lock()
			unchanged := m.etagByKey[key] == etag && etag != ""
			m.mu.Unlock()
			if unchanged {
				continue
			}

			if err := m.downloadObject(ctx, workspaceRoot, key); err != nil {
				diagnostics = appendDiagnostic(diagnostics, "s3-mirror-failed:"+key)
				continue
			}

			m.mu.Lock()
			m.etagByKey[key] = etag
			m.mu.Unlock()
		}
	}

	return diagnostics
}

func (m *S3Mirror) downloadObject(ctx context.Context, workspaceRoot, key string) error {
	resp, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	relativeKey := strings.TrimPrefix(key, m.prefix)
	relativeKey = strings.TrimPrefix(relativeKey, "/")
	destination := filepath.Join(workspaceRoot, filepath.FromSlash(relativeKey))

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return err
	}

	file, err := os.Create(destination)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(file, resp.Body)
	return err
}

func classifyS3Error(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return "unknown"
}
