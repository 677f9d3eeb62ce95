// Package archive ships lifecycle run summaries to S3-compatible object
// storage (Cloudflare R2 in production).
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"spectres-crm/internal/config"
	"spectres-crm/internal/lifecycle"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const keyPrefix = "lifecycle-runs"

// ObjectPutter is the subset of the s3 client used here
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Document is the archived JSON body
type Document struct {
	Trigger    string               `json:"trigger"`
	StartedAt  time.Time            `json:"startedAt"`
	FinishedAt time.Time            `json:"finishedAt"`
	Result     *lifecycle.RunResult `json:"result"`
}

type S3Archiver struct {
	client ObjectPutter
	bucket string
}

func NewS3Archiver(client ObjectPutter, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// New builds an S3 client from the archive config section
func New(ctx context.Context, cfg *config.Config) (*S3Archiver, error) {
	region := cfg.Archive.Region
	if region == "" {
		region = "auto"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Archive.AccessKey,
			cfg.Archive.SecretKey,
			"",
		)),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure s3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Archive.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Archive.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Archiver(client, cfg.Archive.Bucket), nil
}

// Key returns the object key of a run, partitioned by UTC day
func Key(startedAt time.Time, trigger string) string {
	t := startedAt.UTC()
	return fmt.Sprintf("%s/%s/%s-%s.json", keyPrefix, t.Format("2006/01/02"), t.Format("20060102T150405.000Z"), trigger)
}

func (a *S3Archiver) ArchiveRun(ctx context.Context, trigger string, result *lifecycle.RunResult) error {
	body, err := json.Marshal(Document{
		Trigger:    trigger,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Result:     result,
	})
	if err != nil {
		return fmt.Errorf("encode run summary: %w", err)
	}

	key := Key(result.StartedAt, trigger)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	log.Printf("[Archive] Stored run summary %s (%d bytes)", key, len(body))
	return nil
}

// NopArchiver is used when no bucket is configured
type NopArchiver struct{}

func (NopArchiver) ArchiveRun(ctx context.Context, trigger string, result *lifecycle.RunResult) error {
	return nil
}

// FromConfig returns an S3Archiver when the archive section is complete,
// otherwise a NopArchiver
func FromConfig(ctx context.Context, cfg *config.Config) lifecycle.Archiver {
	if !cfg.ArchiveEnabled() {
		log.Println("[Archive] Not configured, run summaries stay local")
		return NopArchiver{}
	}
	a, err := New(ctx, cfg)
	if err != nil {
		log.Printf("[Archive] %v (archiving disabled)", err)
		return NopArchiver{}
	}
	log.Printf("[Archive] Run summaries go to bucket %s", cfg.Archive.Bucket)
	return a
}
