package imagestore

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fakeS3Client implements s3Client for testing.
type fakeS3Client struct {
	lastInput *s3.PutObjectInput
	body      []byte
}

func (f *fakeS3Client) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastInput = input
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = data
	return &s3.PutObjectOutput{}, nil
}

func testUploader(fake *fakeS3Client) *Uploader {
	return &Uploader{
		cfg: Config{
			Endpoint: "https://storage.example.com",
			Bucket:   "recipebox",
		},
		client: fake,
		now:    func() time.Time { return time.Unix(0, 1700000000000000000) },
	}
}

func TestUpload(t *testing.T) {
	fake := &fakeS3Client{}
	u := testUploader(fake)

	url, err := u.Upload(context.Background(), []byte("jpeg bytes"), "photo.jpeg", "image/jpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	want := "https://storage.example.com/recipebox/recipe-images/1700000000000000000.jpeg"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if string(fake.body) != "jpeg bytes" {
		t.Errorf("uploaded body = %q", fake.body)
	}
	if *fake.lastInput.ContentType != "image/jpeg" {
		t.Errorf("content type = %q", *fake.lastInput.ContentType)
	}
}

func TestUploadDefaultExtension(t *testing.T) {
	fake := &fakeS3Client{}
	u := testUploader(fake)

	url, err := u.Upload(context.Background(), []byte("x"), "noext", "image/jpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %q, want .jpg suffix", url)
	}
}

func TestUploadDisabled(t *testing.T) {
	u := NewUploader(Config{})
	if u.Enabled() {
		t.Fatal("uploader with no credentials should be disabled")
	}
	if _, err := u.Upload(context.Background(), []byte("x"), "a.jpg", "image/jpeg"); err == nil {
		t.Fatal("expected error from disabled uploader")
	}
}

func TestDecodeDataURI(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("image bytes"))

	for _, input := range []string{raw, "data:image/jpeg;base64," + raw} {
		data, err := DecodeDataURI(input)
		if err != nil {
			t.Fatalf("decode %q: %v", input[:20], err)
		}
		if string(data) != "image bytes" {
			t.Errorf("decoded = %q", data)
		}
	}

	if _, err := DecodeDataURI("not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
}
