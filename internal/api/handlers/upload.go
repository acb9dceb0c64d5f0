package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const maxUploadSize = 32 << 20 // 32 MiB

// stageUpload copies a multipart form file into the temp upload directory
// and returns its local path. An absent field returns ("", nil) so optional
// files fall through cleanly. Callers are responsible for removing the file.
func stageUpload(r *http.Request, field, tempDir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()

	localPath := filepath.Join(tempDir, uuid.New().String()+filepath.Ext(header.Filename))
	dst, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(localPath)
		return "", err
	}
	return localPath, nil
}

// removeStaged deletes a staged upload, ignoring already-gone files.
func removeStaged(path string) {
	if path != "" {
		os.Remove(path)
	}
}
