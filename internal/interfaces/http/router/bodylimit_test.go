package router

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taxprep/backend/internal/application/media"
	"github.com/taxprep/backend/internal/infrastructure/storage"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
	"github.com/taxprep/backend/internal/interfaces/http/middleware"
	"github.com/taxprep/backend/internal/testutil"
)

func TestAPI_OnlyUploadsGetTheLargerBodyLimit(t *testing.T) {
	f := newAPI(t, func(engine *gin.Engine, svc *Services, opts *Options) {
		store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
		require.NoError(t, err)
		svc.Media = media.NewService(store, media.Config{
			MaxSize:      1 << 20,
			AllowedTypes: []string{"application/pdf"},
		}, zap.NewNop())

		engine.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{MaxBytes: 512, Skip: IsUploadRoute}))
		opts.UploadLimit = middleware.BodyLimit(64 << 10)
	})
	admin := f.token(t, "admin")

	t.Run("json routes keep the small limit", func(t *testing.T) {
		w := testutil.Do(t, f.engine, testutil.Request{Method: http.MethodPost, Path: "/api/v1/admin/categories",
			Headers: admin, Body: map[string]any{"name": "Tax Tips", "description": strings.Repeat("x", 1024)}})
		testutil.AssertError(t, w, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge)
	})

	pdf := append([]byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"), bytes.Repeat([]byte("%"), 2048)...)
	upload := func(path string, content []byte) int {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "w2.pdf")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		w := testutil.Do(t, f.engine, testutil.Request{Method: http.MethodPost, Path: path, Body: &buf,
			Headers: map[string]string{"Content-Type": mw.FormDataContentType(), "Authorization": admin["Authorization"]}})
		return w.Code
	}

	t.Run("uploads above the json limit are accepted", func(t *testing.T) {
		assert.Equal(t, http.StatusCreated, upload("/api/v1/public/uploads", pdf))
		assert.Equal(t, http.StatusCreated, upload("/api/v1/admin/uploads", pdf))
	})

	t.Run("uploads above their own limit are refused", func(t *testing.T) {
		big := append(pdf, bytes.Repeat([]byte("%"), 128<<10)...)
		assert.Equal(t, http.StatusRequestEntityTooLarge, upload("/api/v1/admin/uploads", big))
	})
}
