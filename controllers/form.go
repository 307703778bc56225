package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"roomadmin/constants"
	"roomadmin/dto"
	apperrors "roomadmin/errors"
	"roomadmin/models"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// roomPayload là body JSON của create/update room; ảnh chỉ là URL có sẵn
type roomPayload struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Area        *string              `json:"area"`
	Price       *float64             `json:"price"`
	Status      *models.RoomStatus   `json:"status"`
	Tags        []string             `json:"tags"`
	Images      []string             `json:"images"`
	Packages    []dto.PackageRequest `json:"packages"`
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// readImageFiles đọc các file ảnh trong field; file lớn hơn giới hạn chỉ được
// đọc tới giới hạn + 1 byte để service từ chối
func readImageFiles(headers []*multipart.FileHeader) ([]*dto.ImageFile, error) {
	files := make([]*dto.ImageFile, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFile, "Lỗi khi mở file", err)
		}
		data, err := io.ReadAll(io.LimitReader(src, constants.MaxImageSize+1))
		src.Close()
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrCodeInvalidFile, "Lỗi khi đọc file", err)
		}
		files = append(files, &dto.ImageFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        data,
		})
	}
	return files, nil
}

// parseRoomForm đọc room từ multipart form; images là URL giữ lại, files là ảnh mới
func parseRoomForm(c *gin.Context) (*roomPayload, []dto.ImageInput, bool, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, false, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Form không hợp lệ", err)
	}

	p := &roomPayload{}
	if v, ok := formValue(form, "name"); ok {
		p.Name = &v
	}
	if v, ok := formValue(form, "description"); ok {
		p.Description = &v
	}
	if v, ok := formValue(form, "area"); ok {
		p.Area = &v
	}
	if v, ok := formValue(form, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, nil, false, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Giá không hợp lệ", err)
		}
		p.Price = &price
	}
	if v, ok := formValue(form, "status"); ok {
		status, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, false, apperrors.NewAppError(apperrors.ErrCodeInvalidStatus, "Trạng thái không hợp lệ", err)
		}
		rs := models.RoomStatus(status)
		p.Status = &rs
	}
	if tags, ok := form.Value["tags"]; ok {
		p.Tags = nonEmpty(tags)
	}
	if v, ok := formValue(form, "packages"); ok && v != "" {
		if err := json.Unmarshal([]byte(v), &p.Packages); err != nil {
			return nil, nil, false, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Danh sách gói không hợp lệ", err)
		}
	}

	urls, hasURLs := form.Value["images"]
	fileHeaders := form.File["files"]
	imagesSet := hasURLs || len(fileHeaders) > 0

	inputs := make([]dto.ImageInput, 0, len(urls)+len(fileHeaders))
	for _, u := range nonEmpty(urls) {
		inputs = append(inputs, dto.ImageURL(u))
	}
	files, err := readImageFiles(fileHeaders)
	if err != nil {
		return nil, nil, false, err
	}
	for _, f := range files {
		inputs = append(inputs, dto.NewImage(f))
	}
	return p, inputs, imagesSet, nil
}

// parseRoomRequest đọc body multipart hoặc JSON
func parseRoomRequest(c *gin.Context) (*roomPayload, []dto.ImageInput, bool, error) {
	if isMultipart(c) {
		return parseRoomForm(c)
	}
	var p roomPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		return nil, nil, false, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, "Dữ liệu không hợp lệ", err)
	}
	inputs := make([]dto.ImageInput, 0, len(p.Images))
	for _, u := range p.Images {
		inputs = append(inputs, dto.ImageURL(u))
	}
	return &p, inputs, p.Images != nil, nil
}

func (p *roomPayload) toCreate(images []dto.ImageInput) dto.CreateRoomParams {
	params := dto.CreateRoomParams{
		Status:   p.Status,
		Images:   images,
		Tags:     p.Tags,
		Packages: p.Packages,
	}
	if p.Name != nil {
		params.Name = *p.Name
	}
	if p.Description != nil {
		params.Description = *p.Description
	}
	if p.Area != nil {
		params.Area = *p.Area
	}
	if p.Price != nil {
		params.Price = *p.Price
	}
	return params
}

func (p *roomPayload) toUpdate(images []dto.ImageInput, imagesSet bool) dto.UpdateRoomParams {
	params := dto.UpdateRoomParams{
		Name:        p.Name,
		Description: p.Description,
		Area:        p.Area,
		Price:       p.Price,
		Status:      p.Status,
		Tags:        p.Tags,
	}
	if imagesSet {
		params.Images = images
	}
	return params
}

func formValue(form *multipart.Form, key string) (string, bool) {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return strings.TrimSpace(vals[0]), true
}

func nonEmpty(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewAppError(apperrors.ErrCodeInvalidFormat, fmt.Sprintf("%s không hợp lệ", name), err)
	}
	return id, nil
}
