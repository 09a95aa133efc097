package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// UploadsURLPrefix is where UploadDir is served from.
const UploadsURLPrefix = "/uploads"

// allowedImageTypes maps sniffed MIME types to the extension files are stored with.
// SVG is excluded because it can carry script.
var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadController manages the media library.
type UploadController struct {
	db *gorm.DB
}

// NewUploadController creates a new UploadController instance.
func NewUploadController(db *gorm.DB) *UploadController {
	return &UploadController{db: db}
}

// Upload stores one image from the multipart field "file".
func (u *UploadController) Upload(ctx *gin.Context) {
	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxMB) << 20

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxMB))
		return
	}

	// Trust the bytes, not the client supplied Content-Type
	head := make([]byte, 3072)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		utils.Error(ctx, http.StatusBadRequest, 40032, "failed to read file")
		return
	}
	head = head[:n]
	mimeType := mimetype.Detect(head).String()
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40033, "only png, jpeg, gif and webp images are allowed")
		return
	}

	now := time.Now()
	relDir := filepath.Join(now.Format("2006"), now.Format("01"))
	baseDir := filepath.Join(cfg.UploadDir, relDir)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Sugar.Errorw("create upload dir", "dir", baseDir, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50100, "failed to create upload directory")
		return
	}

	name := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, name)
	written, err := writeLimited(dstPath, io.MultiReader(bytes.NewReader(head), file), maxSize)
	if err != nil {
		_ = os.Remove(dstPath)
		if errors.Is(err, errFileTooLarge) {
			utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("file size exceeds %dMB", cfg.UploadMaxMB))
			return
		}
		utils.Sugar.Errorw("write upload", "path", dstPath, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50101, "failed to save file")
		return
	}

	record := models.UploadedFile{
		OriginalName: truncate(filepath.Base(header.Filename), 255),
		FilePath:     dstPath,
		URL:          path.Join(UploadsURLPrefix, filepath.ToSlash(relDir), name),
		MimeType:     mimeType,
		Size:         written,
	}
	if err := u.db.Create(&record).Error; err != nil {
		_ = os.Remove(dstPath)
		respondWriteError(ctx, err, 50102, "record upload")
		return
	}
	utils.Created(ctx, gin.H{"file": record, "url": record.URL})
}

var errFileTooLarge = errors.New("file too large")

// writeLimited copies r into a new file at dst, failing once more than limit bytes arrive.
func writeLimited(dst string, r io.Reader, limit int64) (int64, error) {
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	written, err := io.Copy(out, &io.LimitedReader{R: r, N: limit + 1})
	if err != nil {
		return written, err
	}
	if written > limit {
		return written, errFileTooLarge
	}
	return written, out.Sync()
}

// List returns uploads newest first.
func (u *UploadController) List(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	var total int64
	if err := u.db.Model(&models.UploadedFile{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50103, "failed to count uploads")
		return
	}
	files := []models.UploadedFile{}
	if err := u.db.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&files).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50104, "failed to list uploads")
		return
	}
	utils.Success(ctx, paginated(files, page, pageSize, total))
}

// Delete removes the file from disk, then its record. A file already gone is not an error.
func (u *UploadController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var record models.UploadedFile
	if err := u.db.First(&record, id).Error; err != nil {
		respondLoadError(ctx, err, 40410, 50105, "upload")
		return
	}
	if err := os.Remove(record.FilePath); err != nil && !os.IsNotExist(err) {
		utils.Sugar.Errorw("remove upload", "path", record.FilePath, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50106, "failed to remove file")
		return
	}
	if err := u.db.Delete(&record).Error; err != nil {
		respondWriteError(ctx, err, 50107, "delete upload")
		return
	}
	utils.Success(ctx, gin.H{"message": "upload deleted"})
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
