package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kibidoart/kibido-backend/pkg/config"
	pkgerrors "github.com/kibidoart/kibido-backend/pkg/errors"
	"github.com/kibidoart/kibido-backend/pkg/logger"
)

func newTestService(t *testing.T) (Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}
	svc, err := NewService(store, config.MediaConfig{
		PublicBaseURL: "/images/products",
		MaxUploadMB:   1,
	}, logger.New(logger.Options{ServiceName: "media-test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc, dir
}

func TestUploadStoresImage(t *testing.T) {
	svc, dir := newTestService(t)
	payload := []byte("fake png bytes")

	out, err := svc.Upload(context.Background(), UploadInput{
		FileName:  "Sunset Over Harbor.PNG",
		MimeType:  "image/png; charset=binary",
		SizeBytes: int64(len(payload)),
		Content:   strings.NewReader(string(payload)),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if !strings.HasPrefix(out.FileName, "sunset-over-harbor-") || !strings.HasSuffix(out.FileName, ".png") {
		t.Fatalf("unexpected stored name %s", out.FileName)
	}
	if out.URL != "/images/products/"+out.FileName {
		t.Fatalf("unexpected url %s", out.URL)
	}
	if out.ContentType != "image/png" {
		t.Fatalf("unexpected content type %s", out.ContentType)
	}
	if out.SizeBytes != int64(len(payload)) {
		t.Fatalf("unexpected size %d", out.SizeBytes)
	}

	stored, err := os.ReadFile(filepath.Join(dir, out.FileName))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(stored) != string(payload) {
		t.Fatalf("stored bytes differ")
	}
}

func TestUploadRejectsNonImageMime(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileName:  "notes.pdf",
		MimeType:  "application/pdf",
		SizeBytes: 10,
		Content:   strings.NewReader("0123456789"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsOversizeDeclaration(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileName:  "huge.png",
		MimeType:  "image/png",
		SizeBytes: 2 * 1024 * 1024,
		Content:   strings.NewReader("tiny"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsUnderstatedSize(t *testing.T) {
	svc, dir := newTestService(t)

	_, err := svc.Upload(context.Background(), UploadInput{
		FileName:  "sneaky.png",
		MimeType:  "image/png",
		SizeBytes: 4,
		Content:   strings.NewReader("much more than four bytes"),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected partial upload to be removed, found %d files", len(entries))
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)

	out, err := svc.Upload(context.Background(), UploadInput{
		FileName:  "gone.png",
		MimeType:  "image/png",
		SizeBytes: 3,
		Content:   strings.NewReader("abc"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(context.Background(), out.FileName); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), out.FileName); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDiskStoreRejectsTraversal(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	for _, key := range []string{"../escape.png", "/abs.png", ".."} {
		if _, err := store.Save(context.Background(), key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected traversal key %q to be rejected", key)
		}
	}
}
