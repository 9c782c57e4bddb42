package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcfg "github.com/tenderiq/core/internal/config"
)

var ErrDocumentNotFound = errors.New("tender document not found")

// Source fetches the raw tender document for an analysis run.
type Source interface {
	// Fetch returns the document bytes and its filename for a tender.
	Fetch(ctx context.Context, tenderRef string) (data []byte, filename string, err error)
}

// NewSource selects the S3 source when a bucket is configured, otherwise
// the local directory source.
func NewSource(ctx context.Context, cfg appcfg.DocumentsConfig) (Source, error) {
	if strings.TrimSpace(cfg.S3.Bucket) != "" {
		return NewS3Source(ctx, cfg.S3)
	}
	return NewLocalSource(cfg.LocalDir), nil
}

// S3Source reads tender documents from an S3 bucket. Objects are keyed as
// <prefix>/<tenderRef>.pdf.
type S3Source struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Source(ctx context.Context, cfg appcfg.S3Config) (*S3Source, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Source{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (s *S3Source) Fetch(ctx context.Context, tenderRef string) ([]byte, string, error) {
	filename := safeDocumentName(tenderRef)
	key := filename
	if s.prefix != "" {
		key = path.Join(s.prefix, filename)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, "", ErrDocumentNotFound
		}
		return nil, "", fmt.Errorf("get s3 object %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read s3 object %q: %w", key, err)
	}
	return data, filename, nil
}

// LocalSource reads tender documents from a directory on disk, used in
// development and tests.
type LocalSource struct {
	dir string
}

func NewLocalSource(dir string) *LocalSource {
	if strings.TrimSpace(dir) == "" {
		dir = "documents"
	}
	return &LocalSource{dir: dir}
}

func (s *LocalSource) Fetch(ctx context.Context, tenderRef string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	filename := safeDocumentName(tenderRef)
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrDocumentNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return data, filename, nil
}

// safeDocumentName maps a tender reference to a flat pdf filename,
// stripping any path separators the reference may carry.
func safeDocumentName(tenderRef string) string {
	name := strings.TrimSpace(tenderRef)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return name + ".pdf"
}

func isS3NotFound(err error) bool {
	var apiErr interface{ ErrorCode() string }
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchKey" || code == "NotFound"
	}
	return false
}
