package handler

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// UploadHandler sube fotos de obra al almacenamiento de objetos
type UploadHandler struct {
	client *minio.Client
	bucket string
}

func NewUploadHandler(client *minio.Client, bucket string) *UploadHandler {
	return &UploadHandler{client: client, bucket: bucket}
}

// UploadedFile referencia durable de un archivo subido
type UploadedFile struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Upload POST /api/v1/uploads
// Acepta varios archivos en el campo "files" o uno solo en "file".
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "no se pudo leer el formulario: "+err.Error())
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		BadRequest(c, "no se adjuntó ningún archivo")
		return
	}

	now := time.Now()
	var uploaded []UploadedFile

	for _, fileHeader := range files {
		fileID := uuid.New().String()[:32]
		key := fmt.Sprintf("fotos/%d/%02d/%s%s", now.Year(), now.Month(), fileID, filepath.Ext(fileHeader.Filename))

		src, err := fileHeader.Open()
		if err != nil {
			InternalError(c, "error al leer el archivo: "+err.Error())
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		_, err = h.client.PutObject(c.Request.Context(), h.bucket, key, src, fileHeader.Size,
			minio.PutObjectOptions{ContentType: contentType})
		src.Close()
		if err != nil {
			InternalError(c, "error al almacenar el archivo: "+err.Error())
			return
		}

		uploaded = append(uploaded, UploadedFile{
			ID:          fileID,
			URL:         "minio://" + key,
			Filename:    fileHeader.Filename,
			Size:        fileHeader.Size,
			ContentType: contentType,
		})
	}

	Created(c, gin.H{"files": uploaded})
}
