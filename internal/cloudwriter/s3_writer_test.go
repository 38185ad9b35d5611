package cloudwriter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	bucket, key string
	body        []byte
	err         error
	calls       int
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Writer_UploadsOnClose(t *testing.T) {
	putter := &fakePutter{}
	w, err := NewS3WriterFactoryWithClient(putter).NewWriter("archive", "sessions/part-1.parquet")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	w.Write([]byte("PAR1"))
	w.Write([]byte("data"))
	if putter.calls != 0 {
		t.Fatal("nothing should be uploaded before Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if putter.calls != 1 || putter.bucket != "archive" || putter.key != "sessions/part-1.parquet" || string(putter.body) != "PAR1data" {
		t.Fatalf("unexpected upload: %+v", putter)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Fatal("expected write after close to fail")
	}
}

func TestS3Writer_Errors(t *testing.T) {
	if _, err := NewS3WriterFactoryWithClient(&fakePutter{}).NewWriter("", "x"); err == nil {
		t.Fatal("expected missing bucket to be rejected")
	}

	w, _ := NewS3WriterFactoryWithClient(&fakePutter{err: errors.New("denied")}).NewWriter("b", "k")
	if err := w.Close(); err == nil {
		t.Fatal("expected upload error")
	}
}
