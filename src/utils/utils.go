package utils

import (
	"io"
	"mime/multipart"
	"net/http"

	"JobBoard/src/core/database"

	storage_go "github.com/supabase-community/storage-go"
)

// UploadToStorage uploads a file to the storage bucket and returns the
// object path, its public URL, and the detected content type.
func UploadToStorage(file *multipart.FileHeader, path string) (string, string, string, error) {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return "", "", "", err
	}

	fileBody, err := file.Open()
	if err != nil {
		return "", "", "", err
	}
	defer fileBody.Close()

	fileBytes, err := io.ReadAll(fileBody)
	if err != nil {
		return "", "", "", err
	}

	// Rewind after sniffing so the upload sends the whole file
	if _, err := fileBody.Seek(0, io.SeekStart); err != nil {
		return "", "", "", err
	}
	contentType := http.DetectContentType(fileBytes)

	_, err = storageClient.UploadFile(bucketName, path, fileBody, storage_go.FileOptions{ContentType: &contentType})
	if err != nil {
		return "", "", "", err
	}

	response := storageClient.GetPublicUrl(bucketName, path)
	return path, response.SignedURL, contentType, nil
}

// DeleteFromStorage deletes a stored object given its path.
func DeleteFromStorage(path string) error {
	storageClient, bucketName, err := database.SupabaseStorage()
	if err != nil {
		return err
	}

	_, err = storageClient.RemoveFile(bucketName, []string{path})
	return err
}
