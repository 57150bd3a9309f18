package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxprep/backend/internal/application/media"
	"github.com/taxprep/backend/internal/interfaces/http/dto"
)

// UploadHandler stores files sent as multipart forms
type UploadHandler struct {
	BaseHandler
	service *media.Service
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(service *media.Service) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload godoc
// @ID           uploadFile
// @Summary      Upload a file
// @Description  Stores the multipart field "file" under the optional "folder" and returns its public URL.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData file   true  "File"
// @Param        folder formData string false "Folder"
// @Success      201 {object} dto.Response{data=string}
// @Failure      400 {object} dto.Response
// @Failure      413 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /admin/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	h.upload(c, c.PostForm("folder"))
}

// PublicUpload godoc
// @ID           uploadDocument
// @Summary      Upload a supporting document from the organizer wizard
// @Description  Stores the multipart field "file" under "documents"; any "folder" field is ignored.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "File"
// @Success      201 {object} dto.Response{data=string}
// @Failure      400 {object} dto.Response
// @Failure      413 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Router       /public/uploads [post]
func (h *UploadHandler) PublicUpload(c *gin.Context) {
	h.upload(c, media.PublicFolder)
}

func (h *UploadHandler) upload(c *gin.Context, folder string) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", []dto.FieldDetail{
				{Field: "file", Message: "file is required"},
			}))
			return
		}
		h.BindError(c, err)
		return
	}

	f, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	result, err := h.service.Upload(c.Request.Context(), media.UploadInput{
		FileName: header.Filename,
		Folder:   folder,
		Body:     f,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(result.URL))
}
