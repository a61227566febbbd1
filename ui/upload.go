package ui

import (
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"surveystat/domain/survey"
	"surveystat/internal/errors"
)

// readUpload reads the multipart file field into a RawUpload
func (s *Server) readUpload(c *gin.Context, field string) (survey.RawUpload, error) {
	file, header, err := c.Request.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case stderrors.As(err, &maxErr):
			return survey.RawUpload{}, s.tooLarge()
		case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
			return survey.RawUpload{}, errors.InvalidInput("no file uploaded: choose a file first")
		}
		return survey.RawUpload{}, errors.FormatErrorf(err, "could not read the upload")
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes()+1))
	if err != nil {
		return survey.RawUpload{}, errors.FormatErrorf(err, "could not read %s", header.Filename)
	}
	if int64(len(content)) > s.maxUploadBytes() {
		return survey.RawUpload{}, s.tooLarge()
	}
	return survey.RawUpload{Filename: filepath.Base(header.Filename), Content: content}, nil
}

// readCarriedUpload returns the upload a column form carries back as a data
// URL, falling back to a fresh multipart file.
func (s *Server) readCarriedUpload(c *gin.Context) (survey.RawUpload, error) {
	contents := c.PostForm("contents")
	if contents == "" {
		return s.readUpload(c, "file")
	}

	content, err := decodeDataURL(contents)
	if err != nil {
		return survey.RawUpload{}, err
	}
	if int64(len(content)) > s.maxUploadBytes() {
		return survey.RawUpload{}, s.tooLarge()
	}
	filename := filepath.Base(strings.TrimSpace(c.PostForm("filename")))
	if filename == "" || filename == "." {
		return survey.RawUpload{}, errors.InvalidInput("the uploaded file name is missing")
	}
	return survey.RawUpload{Filename: filename, Content: content}, nil
}

func (s *Server) maxUploadBytes() int64 {
	return int64(s.config.MaxUploadMB) << 20
}

func (s *Server) tooLarge() error {
	return errors.ValidationError(fmt.Sprintf("the file is larger than the %d MB upload limit", s.config.MaxUploadMB))
}

var mediaTypes = map[string]string{
	".csv":  "text/csv",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// encodeDataURL packs an upload as "data:<media type>;base64,<payload>"
func encodeDataURL(upload survey.RawUpload) string {
	mediaType, ok := mediaTypes[strings.ToLower(filepath.Ext(upload.Filename))]
	if !ok {
		mediaType = "application/octet-stream"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(upload.Content)
}

// decodeDataURL unpacks a base64 data URL produced by encodeDataURL or a browser upload widget
func decodeDataURL(s string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return nil, errors.FormatError("the carried upload is not a data URL")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, errors.FormatError("the carried upload is not base64 encoded")
	}
	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.FormatErrorf(err, "the carried upload is corrupt")
	}
	return content, nil
}
