package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/stylometer/internal/document"
	"github.com/ppiankov/stylometer/internal/model"
)

type textRequest struct {
	Text      string `json:"text"`
	Intensity string `json:"intensity"`
}

type detectResponse struct {
	AIProbability float64        `json:"ai_probability"`
	Percent       int            `json:"percent"`
	Explanation   string         `json:"explanation"`
	Source        string         `json:"source"`
	Fallback      bool           `json:"fallback"`
	Note          string         `json:"note,omitempty"`
	Signals       []model.Signal `json:"signals,omitempty"`
}

type humanizeResponse struct {
	Humanized string          `json:"humanized"`
	Intensity model.Intensity `json:"intensity"`
	Source    string          `json:"source"`
	Fallback  bool            `json:"fallback"`
	Note      string          `json:"note,omitempty"`
}

type cleanResponse struct {
	Cleaned  string `json:"cleaned"`
	Source   string `json:"source"`
	Fallback bool   `json:"fallback"`
	Note     string `json:"note,omitempty"`
}

type uploadDetails struct {
	OriginalName string `json:"original_name"`
	Characters   int    `json:"characters"`
	Source       string `json:"source"`
	Fallback     bool   `json:"fallback"`
	Note         string `json:"note,omitempty"`
	ExpiresAt    string `json:"expires_at"`
}

type uploadResponse struct {
	DownloadURL string        `json:"downloadUrl"`
	Details     uploadDetails `json:"details"`
}

func (s *Server) detectText(c *gin.Context) {
	req, ok := s.bindText(c)
	if !ok {
		return
	}

	det, err := s.service.Score(c.Request.Context(), req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}

	if strings.EqualFold(c.Query("format"), "text") {
		c.String(http.StatusOK, det.PlainText())
		return
	}

	c.JSON(http.StatusOK, detectResponse{
		AIProbability: det.AIProbability,
		Percent:       det.Percent,
		Explanation:   det.Explanation,
		Source:        det.Source,
		Fallback:      det.Fallback,
		Note:          det.Note,
		Signals:       det.Signals,
	})
}

func (s *Server) humanizeText(c *gin.Context) {
	req, ok := s.bindText(c)
	if !ok {
		return
	}

	intensity, err := model.ParseIntensity(req.Intensity)
	if err != nil {
		s.fail(c, err)
		return
	}

	rw, err := s.service.Humanize(c.Request.Context(), req.Text, intensity)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, humanizeResponse{
		Humanized: rw.Text,
		Intensity: rw.Intensity,
		Source:    rw.Source,
		Fallback:  rw.Fallback,
		Note:      rw.Note,
	})
}

func (s *Server) removeAIText(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		s.removeFromDocument(c)
		return
	}

	req, ok := s.bindText(c)
	if !ok {
		return
	}

	rw, err := s.service.RemovePhrasing(c.Request.Context(), req.Text)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, cleanResponse{
		Cleaned:  rw.Text,
		Source:   rw.Source,
		Fallback: rw.Fallback,
		Note:     rw.Note,
	})
}

// removeFromDocument extracts an uploaded document, cleans it and stores
// the result for download
func (s *Server) removeFromDocument(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file"})
		return
	}

	data, err := readUpload(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := document.Extract(header.Filename, data)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, document.ErrUnsupported) {
			status = http.StatusUnsupportedMediaType
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	rw, err := s.service.RemovePhrasing(c.Request.Context(), text)
	if err != nil {
		s.fail(c, err)
		return
	}

	obj, err := s.store.Put(cleanedName(header.Filename), []byte(rw.Text))
	if err != nil {
		s.logger.Error("store cleaned document", zap.String("file", header.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store result"})
		return
	}

	c.JSON(http.StatusOK, uploadResponse{
		DownloadURL: obj.URL(),
		Details: uploadDetails{
			OriginalName: filepath.Base(header.Filename),
			Characters:   len([]rune(rw.Text)),
			Source:       rw.Source,
			Fallback:     rw.Fallback,
			Note:         rw.Note,
			ExpiresAt:    obj.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
		},
	})
}

func (s *Server) download(c *gin.Context) {
	obj, ok := s.store.Get(c.Param("key"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", obj.Name))
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

// bindText decodes a JSON text request. An empty body is treated as empty text.
func (s *Server) bindText(c *gin.Context) (textRequest, bool) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request too large"})
			return req, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return req, false
	}
	return req, true
}

// fail maps operation errors to status codes
func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, model.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// cleanedName names the stored result after the upload, always as plain text
func cleanedName(original string) string {
	base := filepath.Base(original)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == "/" {
		stem = "document"
	}
	return stem + "-cleaned.txt"
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
