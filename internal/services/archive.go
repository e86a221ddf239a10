package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"undergraduation-admin/config"
	"undergraduation-admin/internal/charts"
	"undergraduation-admin/internal/models"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ReportArchive stores exported insight reports.
type ReportArchive interface {
	// Put stores data under key and returns its location.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// NewReportArchive builds the archive selected by ARCHIVE_DRIVER.
func NewReportArchive(ctx context.Context, cfg *config.Config) (ReportArchive, error) {
	switch cfg.ArchiveDriver {
	case "minio":
		return NewMinioArchive(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	case "local", "":
		return &LocalArchive{Root: cfg.ArchiveLocalPath}, nil
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.ArchiveDriver)
	}
}

// LocalArchive writes reports below Root.
type LocalArchive struct {
	Root string
}

func (a *LocalArchive) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	dst := filepath.Join(a.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", err
	}
	return dst, nil
}

// MinioArchive uploads reports to an S3 compatible bucket.
type MinioArchive struct {
	client *minio.Client
	bucket string
}

func NewMinioArchive(ctx context.Context, endpoint, accessKey, secretKey, bucket string, secure bool) (*MinioArchive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return &MinioArchive{client: client, bucket: bucket}, nil
}

func (a *MinioArchive) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return a.bucket + "/" + key, nil
}

// ExportInsights archives snap as JSON plus an SVG of every dashboard chart
// and a PNG of the status pie. Objects share a prefix derived from the
// snapshot time.
func ExportInsights(ctx context.Context, archive ReportArchive, snap models.InsightsSnapshot) (*models.ExportResult, error) {
	prefix := path.Join("insights", snap.GeneratedAt.UTC().Format("20060102T150405Z"))
	res := &models.ExportResult{GeneratedAt: snap.GeneratedAt, Objects: map[string]string{}}

	put := func(name string, data []byte, contentType string) error {
		loc, err := archive.Put(ctx, path.Join(prefix, name), data, contentType)
		if err != nil {
			return fmt.Errorf("archive %s: %w", name, err)
		}
		res.Objects[name] = loc
		return nil
	}

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := put("snapshot.json", b, "application/json"); err != nil {
		return nil, err
	}

	for _, name := range charts.ChartNames {
		d, _ := charts.ChartFor(name, snap)
		var buf bytes.Buffer
		if err := charts.RenderSVG(&buf, d); err != nil {
			return nil, err
		}
		if err := put(name+".svg", buf.Bytes(), "image/svg+xml"); err != nil {
			return nil, err
		}
	}

	d, _ := charts.ChartFor(charts.ChartStatus, snap)
	var png bytes.Buffer
	if err := charts.RenderPNG(&png, d); err != nil {
		return nil, err
	}
	if err := put(charts.ChartStatus+".png", png.Bytes(), "image/png"); err != nil {
		return nil, err
	}
	return res, nil
}
