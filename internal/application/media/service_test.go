package media

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taxprep/backend/internal/domain/shared"
	"github.com/taxprep/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

func newService(t *testing.T, maxSize int64) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	svc := NewService(store, Config{
		MaxSize:      maxSize,
		AllowedTypes: []string{"image/png", "image/jpeg", "application/pdf"},
	}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) }
	return svc, dir
}

func TestService_UploadStoresUnderDatedKey(t *testing.T) {
	svc, dir := newService(t, 1<<20)

	res, err := svc.Upload(context.Background(), UploadInput{
		FileName: "W2 scan.PDF",
		Folder:   "documents",
		Body:     bytes.NewReader(pdfBytes),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^documents/2025/03/[0-9a-f-]{36}\.pdf$`, res.Key)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.Equal(t, "http://localhost:8080/uploads/"+res.Key, res.URL)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, stored)
}

func TestService_UploadSniffsInsteadOfTrustingTheName(t *testing.T) {
	svc, _ := newService(t, 1<<20)

	res, err := svc.Upload(context.Background(), UploadInput{FileName: "avatar.pdf", Body: bytes.NewReader(pngBytes)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, DefaultFolder+"/"))
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "image/png", res.ContentType)
}

func TestService_UploadRejects(t *testing.T) {
	svc, _ := newService(t, 64)

	cases := map[string]UploadInput{
		"too large":     {Body: bytes.NewReader(append(pdfBytes, bytes.Repeat([]byte("x"), 64)...))},
		"empty":         {Body: bytes.NewReader(nil)},
		"wrong type":    {FileName: "run.sh", Body: strings.NewReader("#!/bin/sh\necho hi\n")},
		"folder escape": {Folder: "../etc", Body: bytes.NewReader(pngBytes)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.NewDomainError(shared.CodeValidation, "")))
		})
	}
}
