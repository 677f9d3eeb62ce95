package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"spectres-crm/internal/config"
	"spectres-crm/internal/lifecycle"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestKey(t *testing.T) {
	warsaw := time.FixedZone("CEST", 2*3600)
	started := time.Date(2026, 5, 21, 1, 15, 30, 250*int(time.Millisecond), warsaw)

	got := Key(started, lifecycle.TriggerSchedule)
	want := "lifecycle-runs/2026/05/20/20260520T231530.250Z-schedule.json"
	if got != want {
		t.Errorf("Key = %s, want %s", got, want)
	}
}

func TestArchiveRun(t *testing.T) {
	putter := &fakePutter{}
	a := NewS3Archiver(putter, "crm-runs")
	started := time.Date(2026, 5, 20, 2, 0, 0, 0, time.UTC)
	result := &lifecycle.RunResult{
		Processed:     3,
		StatusChanged: 1,
		Errors:        []lifecycle.ClientError{{ClientID: uuid.New(), Error: "timeout"}},
		StartedAt:     started,
		FinishedAt:    started.Add(time.Second),
	}

	if err := a.ArchiveRun(context.Background(), lifecycle.TriggerHTTP, result); err != nil {
		t.Fatalf("ArchiveRun: %v", err)
	}
	if aws.ToString(putter.input.Bucket) != "crm-runs" {
		t.Errorf("bucket = %s", aws.ToString(putter.input.Bucket))
	}
	if aws.ToString(putter.input.Key) != Key(started, lifecycle.TriggerHTTP) {
		t.Errorf("key = %s", aws.ToString(putter.input.Key))
	}

	var doc struct {
		Trigger   string         `json:"trigger"`
		StartedAt time.Time      `json:"startedAt"`
		Result    map[string]any `json:"result"`
	}
	if err := json.Unmarshal(putter.body, &doc); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if doc.Trigger != "http" || !doc.StartedAt.Equal(started) || doc.Result["processed"] != float64(3) {
		t.Errorf("unexpected document %s", putter.body)
	}
}

func TestArchiveRun_UploadError(t *testing.T) {
	a := NewS3Archiver(&fakePutter{err: errors.New("403")}, "b")
	err := a.ArchiveRun(context.Background(), lifecycle.TriggerCLI, &lifecycle.RunResult{StartedAt: time.Now()})
	if err == nil {
		t.Fatal("expected upload error")
	}
}

func TestFromConfig_Disabled(t *testing.T) {
	if _, ok := FromConfig(context.Background(), &config.Config{}).(NopArchiver); !ok {
		t.Error("empty archive config should yield NopArchiver")
	}
}
