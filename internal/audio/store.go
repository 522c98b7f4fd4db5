package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Ebenezer-Bakouan/backend/internal/config"
)

const (
	narrationFolder = "dictations"
	mp3ContentType  = "audio/mpeg"
)

// Store persists narration files and returns the URL clients fetch them from.
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// NewFileName returns a unique object name for a dictation narration.
func NewFileName() string {
	return path.Join(narrationFolder, "dictation_"+uuid.NewString()+".mp3")
}

// NewStore builds the store named in cfg.AudioStore.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch strings.ToLower(cfg.AudioStore) {
	case "s3":
		s, err := NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "local", "":
		return NewLocalStore(cfg.MediaPath, cfg.MediaBaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported audio store: %s", cfg.AudioStore)
	}
}

// LocalStore writes files under the media directory served at baseURL.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Save writes data to dir/name, creating parent directories.
func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	clean := path.Clean("/" + name)[1:]
	if clean == "" {
		return "", fmt.Errorf("invalid file name %q", name)
	}

	full := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return s.baseURL + "/" + clean, nil
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads narration files to an S3 bucket.
type S3Store struct {
	client putObjectAPI
	bucket string
	region string
}

// NewS3Store loads the default AWS credential chain for region.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Store{client: s3.NewFromConfig(cfg), bucket: bucket, region: region}, nil
}

// Save uploads data under key name and returns its virtual-hosted URL.
func (s *S3Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mp3ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, name), nil
}
