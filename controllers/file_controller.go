package controllers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxUploadSize = 5 * 1024 * 1024 // 5 MB

const profileImagesSubdir = "profile_images"

var allowedExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true}

// FileController принимает загрузку файлов (фото профиля) и раздает их по /uploads/.
type FileController struct {
	uploadsDir string
	logger     *slog.Logger
}

// NewFileController создает контроллер файлов с корнем uploadsDir.
func NewFileController(uploadsDir string, logger *slog.Logger) *FileController {
	return &FileController{uploadsDir: uploadsDir, logger: logger}
}

// Register регистрирует загрузку на защищенном api и раздачу на открытом root.
func (c *FileController) Register(root, api *mux.Router) {
	api.HandleFunc("/file/upload", c.Upload).Methods(http.MethodPost)
	root.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(c.uploadsDir))))
}

// Upload обрабатывает загрузку файла из поля "file".
// Ответ: {"url": "/uploads/profile_images/<uuid>.<ext>"}.
func (c *FileController) Upload(w http.ResponseWriter, r *http.Request) {
	// Устанавливаем максимальный размер тела запроса
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Размер файла не должен превышать %dMB.", maxUploadSize/1024/1024))
		} else {
			respondError(w, http.StatusBadRequest, "Не удалось обработать multipart form: "+err.Error())
		}
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Не удалось получить файл из запроса: "+err.Error())
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	if !allowedExtensions[ext] {
		respondError(w, http.StatusBadRequest, "Недопустимый тип файла. Разрешены: jpg, jpeg, png, gif.")
		return
	}

	dir := filepath.Join(c.uploadsDir, profileImagesSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		c.logger.Error("failed to create upload dir", "dir", dir, "err", err)
		respondError(w, http.StatusInternalServerError, "Не удалось создать директорию для загрузки.")
		return
	}

	uniqueFileName := uuid.New().String() + ext
	filePath := filepath.Join(dir, uniqueFileName)

	dst, err := os.Create(filePath)
	if err != nil {
		c.logger.Error("failed to create file", "path", filePath, "err", err)
		respondError(w, http.StatusInternalServerError, "Не удалось создать файл на сервере.")
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		c.logger.Error("failed to store file", "path", filePath, "err", err)
		respondError(w, http.StatusInternalServerError, "Не удалось сохранить файл на сервере.")
		return
	}

	// URL относительный от корня сервера, раздается FileServer на /uploads/
	fileAccessURL := "/uploads/" + profileImagesSubdir + "/" + uniqueFileName
	c.logger.Info("file uploaded", "path", filePath, "url", fileAccessURL)

	respondJSON(w, http.StatusOK, map[string]string{"url": fileAccessURL})
}
