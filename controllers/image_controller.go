package controllers

import (
	"context"
	"mime/multipart"

	"roomadmin/dto"
	"roomadmin/response"

	"github.com/gin-gonic/gin"
)

type ImageManager interface {
	UploadImage(ctx context.Context, file *dto.ImageFile, bucket string) (string, error)
	UploadImages(ctx context.Context, files []*dto.ImageFile, bucket string) ([]string, error)
	DeleteImage(ctx context.Context, url, bucket string) error
}

type ImageController struct {
	images ImageManager
}

func NewImageController(images ImageManager) ImageController {
	return ImageController{images: images}
}

func (ic ImageController) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Không có file")
		return
	}
	files, err := readImageFiles([]*multipart.FileHeader{fh})
	if err != nil {
		response.FromError(c, err)
		return
	}

	url, err := ic.images.UploadImage(c.Request.Context(), files[0], c.PostForm("bucket"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"url": url})
}

func (ic ImageController) MultiUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		response.BadRequest(c, "Không có file")
		return
	}
	files, err := readImageFiles(form.File["files"])
	if err != nil {
		response.FromError(c, err)
		return
	}

	bucket, _ := formValue(form, "bucket")
	urls, err := ic.images.UploadImages(c.Request.Context(), files, bucket)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"urls": urls})
}

type deleteImageRequest struct {
	URL    string `json:"url" binding:"required"`
	Bucket string `json:"bucket"`
}

func (ic ImageController) Delete(c *gin.Context) {
	var req deleteImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "URL ảnh là bắt buộc")
		return
	}
	if err := ic.images.DeleteImage(c.Request.Context(), req.URL, req.Bucket); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
