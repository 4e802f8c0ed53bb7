package testutil

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

// MultipartFile describes the file part of a multipart body
type MultipartFile struct {
	Field    string
	Filename string
	Content  []byte
}

// CreateMultipartBody encodes fields and an optional file as multipart/form-data.
// It returns the body and the Content-Type header with its boundary.
func CreateMultipartBody(t *testing.T, fields map[string]string, file *MultipartFile) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}

	if file != nil {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		require.NoError(t, err)

		_, err = part.Write(file.Content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}
