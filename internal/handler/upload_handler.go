package handler

import (
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/recipebox/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const thumbnailMaxWidth = 480

// UploadImage 处理图片上传：以唯一文件名落盘，并生成一张缩略图
// 供列表页引用。缩略图失败不阻断上传，仅记录日志。
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no image file in request")
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, http.StatusBadRequest, "only image files are allowed")
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save file")
		return
	}

	response := gin.H{
		"imageUrl": fmt.Sprintf("%s/%s", a.uploadURL, newFilename),
	}

	thumbName, err := writeThumbnail(filePath)
	if err != nil {
		logger.Warn("failed to generate thumbnail", zap.String("file", newFilename), zap.Error(err))
	} else {
		response["thumbnailUrl"] = fmt.Sprintf("%s/%s", a.uploadURL, thumbName)
	}

	c.JSON(http.StatusCreated, response)
}

// writeThumbnail 解码原图并缩放到固定宽度，输出为 JPEG。
func writeThumbnail(sourcePath string) (string, error) {
	source, err := os.Open(sourcePath)
	if err != nil {
		return "", err
	}
	defer source.Close()

	decoded, _, err := image.Decode(source)
	if err != nil {
		return "", err
	}

	bounds := decoded.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width > thumbnailMaxWidth {
		height = height * thumbnailMaxWidth / width
		width = thumbnailMaxWidth
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), decoded, bounds, draw.Over, nil)

	ext := filepath.Ext(sourcePath)
	thumbPath := strings.TrimSuffix(sourcePath, ext) + "_thumb.jpg"
	target, err := os.Create(thumbPath)
	if err != nil {
		return "", err
	}
	defer target.Close()

	if err := jpeg.Encode(target, scaled, &jpeg.Options{Quality: 85}); err != nil {
		return "", err
	}
	return filepath.Base(thumbPath), nil
}
