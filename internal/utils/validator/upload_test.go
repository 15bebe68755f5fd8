package validator

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pdftext/pkg/logger"
)

const minimalPDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestValidateAcceptsPDF(t *testing.T) {
	v := NewUploadValidator(logger.NewTestLogger(), 1<<20)

	name, err := v.Validate(fileHeader(t, "../../My Report.pdf", []byte(minimalPDF)))
	require.NoError(t, err)
	assert.Equal(t, "My_Report.pdf", name)
}

func TestValidateRejections(t *testing.T) {
	v := NewUploadValidator(logger.NewTestLogger(), 64)

	_, err := v.Validate(nil)
	assert.ErrorIs(t, err, ErrNoFileProvided)

	_, err = v.Validate(&multipart.FileHeader{Filename: ""})
	assert.ErrorIs(t, err, ErrEmptyFilename)

	_, err = v.Validate(fileHeader(t, "notes.txt", []byte("plain text")))
	assert.ErrorIs(t, err, ErrInvalidUpload)

	_, err = v.Validate(fileHeader(t, "fake.pdf", []byte("plain text pretending")))
	assert.ErrorIs(t, err, ErrInvalidUpload)

	_, err = v.Validate(fileHeader(t, "big.pdf", append([]byte(minimalPDF), make([]byte, 128)...)))
	assert.ErrorIs(t, err, ErrInvalidUpload)

	_, err = v.Validate(fileHeader(t, "Ω", []byte(minimalPDF)))
	assert.ErrorIs(t, err, ErrInvalidUpload)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool \xfcml\xe4uts.txt", "i_contain_cool_mluts.txt"},
		{"Ünïcödé.pdf", "Unicode.pdf"},
		{"report\\2024.pdf", "report_2024.pdf"},
		{"CON.pdf", "_CON.pdf"},
		{"...", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}
