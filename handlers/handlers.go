package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gbitstego/audio-steg/internal/container"
	"github.com/gbitstego/audio-steg/internal/lsb"
	"github.com/gbitstego/audio-steg/internal/stego"
	"github.com/gbitstego/audio-steg/internal/transcode"
	"github.com/gbitstego/audio-steg/models"
)

// Handlers holds no service dependencies beyond the core packages
// themselves — stego.Coordinator and stego.Analyzer are stateless and
// constructed fresh per request.
type Handlers struct{}

// NewHandlers creates a new handlers instance.
func NewHandlers() *Handlers {
	return &Handlers{}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// FileInfo represents audio file information returned alongside capacity.
type FileInfo struct {
	Filename      string `json:"filename"`
	SizeBytes     int    `json:"size_bytes"`
	SampleRate    int    `json:"sample_rate,omitempty"`
	Channels      int    `json:"channels,omitempty"`
	BitsPerSample int    `json:"bits_per_sample,omitempty"`
}

// CapacityHandlerResponse wraps models.CapacityResponse with file info and
// timing, matching the shape of the other endpoints here.
type CapacityHandlerResponse struct {
	Capacity         models.CapacityResponse `json:"capacity"`
	FileInfo         FileInfo                `json:"file_info"`
	ProcessingTimeMs int                     `json:"processing_time_ms"`
}

// HealthHandler handles the health check endpoint.
//
//	@Summary		Health Check
//	@Description	Returns the health status of the API service
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"Service is healthy"
//	@Router			/health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
	})
}

// CalculateCapacityHandler reports the generous per-mode capacity of an
// uploaded carrier file.
//
//	@Summary		Calculate Audio Embedding Capacity
//	@Description	Calculates the maximum payload size for an uploaded carrier at each quality mode.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			audio	formData	file	true	"Carrier audio file (WAV, MP3, or FLAC)"
//	@Success		200		{object}	CapacityHandlerResponse
//	@Failure		400		{object}	models.ErrorResponse
//	@Failure		500		{object}	models.ErrorResponse
//	@Router			/capacity [post]
func (h *Handlers) CalculateCapacityHandler(c *gin.Context) {
	startTime := time.Now()
	requestID := requestIDFrom(c)

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		log.Printf("[ERROR] [%s] CalculateCapacityHandler: no audio file provided: %v", requestID, err)
		sendError(c, http.StatusBadRequest, "MISSING_FILE", "audio file not provided")
		return
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read uploaded file")
		return
	}

	src, err := transcode.OpenForEmbed(fileHeader.Filename, data)
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		return
	}
	body := src.Body

	resp := CapacityHandlerResponse{
		Capacity: models.CapacityResponse{
			CarrierBodyBytes: len(body),
			HighBytes:        lsb.Capacity(len(body), lsb.QualityHigh.Bits()),
			NormalBytes:      lsb.Capacity(len(body), lsb.QualityNormal.Bits()),
			LowBytes:         lsb.Capacity(len(body), lsb.QualityLow.Bits()),
		},
		FileInfo: FileInfo{
			Filename:  fileHeader.Filename,
			SizeBytes: int(fileHeader.Size),
		},
		ProcessingTimeMs: int(time.Since(startTime).Milliseconds()),
	}
	c.Header("X-Processing-Time", strconv.Itoa(resp.ProcessingTimeMs))
	c.JSON(http.StatusOK, resp)
}

// EmbedHandler embeds one or more secret files into a carrier audio file.
//
//	@Summary		Embed secret files into audio
//	@Description	Embeds one or more secret files into the carrier using LSB steganography, at the requested quality and optional password.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		application/octet-stream
//	@Param			audio		formData	file	true	"Carrier audio file (WAV, MP3, or FLAC)"
//	@Param			secret		formData	file	true	"Secret file to embed (repeatable)"
//	@Param			quality		formData	string	false	"high | normal | low (default normal)"
//	@Param			password	formData	string	false	"Optional password; when set the container is AES-256-GCM sealed"
//	@Success		200	{file}		binary	"Carrier audio with embedded secret"
//	@Failure		400	{object}	models.ErrorResponse
//	@Failure		422	{object}	models.ErrorResponse
//	@Failure		500	{object}	models.ErrorResponse
//	@Router			/embed [post]
func (h *Handlers) EmbedHandler(c *gin.Context) {
	startTime := time.Now()

	audioHeader, err := c.FormFile("audio")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILES", "carrier audio file not provided")
		return
	}
	audioData, err := readMultipartFile(audioHeader)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read carrier file")
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["secret"]) == 0 {
		sendError(c, http.StatusBadRequest, "MISSING_FILES", "at least one secret file is required")
		return
	}

	var files []container.File
	for _, fh := range form.File["secret"] {
		data, err := readMultipartFile(fh)
		if err != nil {
			sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read secret file "+fh.Filename)
			return
		}
		files = append(files, container.File{Name: fh.Filename, Data: data})
	}

	mode, ok := lsb.ParseQualityMode(orDefault(c.PostForm("quality"), "normal"))
	if !ok {
		sendError(c, http.StatusBadRequest, "INVALID_QUALITY", "quality must be one of high, normal, low")
		return
	}
	password := c.PostForm("password")

	src, err := transcode.OpenForEmbed(audioHeader.Filename, audioData)
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		return
	}

	coordinator := stego.NewCoordinator(nil)
	if _, err := coordinator.Encode(src.Body, files, mode, password); err != nil {
		sendError(c, models.StatusForError(err), "EMBED_FAILED", err.Error())
		return
	}

	out, err := src.Assemble()
	if err != nil {
		sendError(c, http.StatusInternalServerError, "ASSEMBLE_FAILED", err.Error())
		return
	}

	outName := audioHeader.Filename
	if ext := filepath.Ext(outName); strings.EqualFold(ext, ".flac") {
		// Assemble returns the synthetic WAV buffer for a FLAC carrier.
		outName = strings.TrimSuffix(outName, ext) + ".wav"
	}
	processingTime := int(time.Since(startTime).Milliseconds())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outName))
	c.Header("X-Embedding-Quality", mode.String())
	c.Header("X-Secret-Count", strconv.Itoa(len(files)))
	c.Header("X-Processing-Time", strconv.Itoa(processingTime))
	c.Data(http.StatusOK, "application/octet-stream", out)
}

// ExtractHandler extracts every file from a stego audio carrier.
//
//	@Summary		Extract secret files from audio
//	@Description	Extracts every file embedded in the stego audio, decrypting with password if the container is encrypted.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			stego_audio	formData	file	true	"Stego audio file"
//	@Param			quality		formData	string	false	"high | normal | low (default normal); must match the embed quality"
//	@Param			password	formData	string	false	"Password, required if the container is encrypted"
//	@Success		200	{object}	models.ExtractResponse
//	@Failure		400	{object}	models.ErrorResponse
//	@Failure		401	{object}	models.ErrorResponse
//	@Failure		422	{object}	models.ErrorResponse
//	@Router			/extract [post]
func (h *Handlers) ExtractHandler(c *gin.Context) {
	stegoHeader, err := c.FormFile("stego_audio")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", "stego audio file not provided")
		return
	}
	stegoData, err := readMultipartFile(stegoHeader)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read stego file")
		return
	}

	mode, ok := lsb.ParseQualityMode(orDefault(c.PostForm("quality"), "normal"))
	if !ok {
		sendError(c, http.StatusBadRequest, "INVALID_QUALITY", "quality must be one of high, normal, low")
		return
	}
	password := c.PostForm("password")

	body, err := transcode.ExtractEmbeddedBody(stegoHeader.Filename, stegoData)
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		return
	}

	// The HTTP path has no interactive channel to prompt for a password,
	// so a nil PasswordProvider is deliberate: an encrypted container with
	// no password supplied surfaces ErrKeyRequired rather than blocking.
	coordinator := stego.NewCoordinator(nil)
	recovered, err := coordinator.Decode(context.Background(), body, mode.Bits(), password, nil)
	if err != nil {
		sendError(c, models.StatusForError(err), "EXTRACTION_ERROR", err.Error())
		return
	}

	resp := models.ExtractResponse{Files: make([]models.ExtractedFile, len(recovered))}
	for i, f := range recovered {
		resp.Files[i] = models.ExtractedFile{Name: f.Name, Size: len(f.Data), Data: f.Data}
	}
	c.JSON(http.StatusOK, resp)
}

// AnalyzeHandler reports what (if anything) a carrier holds, without
// writing any extracted file.
//
//	@Summary		Analyze audio for hidden data
//	@Description	Inspects a carrier for an embedded container, reporting cipher version, file count, and names/sizes when available.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			audio		formData	file	true	"Audio file to inspect"
//	@Param			quality		formData	string	false	"high | normal | low (default normal)"
//	@Param			password	formData	string	false	"Password, to list file names/sizes of an encrypted container"
//	@Success		200	{object}	models.AnalyzeResponse
//	@Failure		400	{object}	models.ErrorResponse
//	@Router			/analyze [post]
func (h *Handlers) AnalyzeHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", "audio file not provided")
		return
	}
	data, err := readMultipartFile(fileHeader)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "failed to read uploaded file")
		return
	}

	mode, ok := lsb.ParseQualityMode(orDefault(c.PostForm("quality"), "normal"))
	if !ok {
		sendError(c, http.StatusBadRequest, "INVALID_QUALITY", "quality must be one of high, normal, low")
		return
	}
	password := c.PostForm("password")

	body, err := transcode.ExtractEmbeddedBody(fileHeader.Filename, data)
	if err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		return
	}

	report := stego.NewAnalyzer().Analyze(body, mode.Bits(), password)
	resp := models.AnalyzeResponse{
		HasData:       report.HasData,
		CipherVersion: int(report.CipherVersion),
		FileCount:     report.FileCount,
		TotalSize:     report.TotalSize,
		Corrupt:       report.Corrupt,
	}
	for _, f := range report.Files {
		resp.Files = append(resp.Files, models.ExtractedFile{Name: f.Name, Size: f.Size})
	}
	c.JSON(http.StatusOK, resp)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func requestIDFrom(c *gin.Context) string {
	if id, ok := c.Get("trace_id"); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return "-"
}

// sendError sends a standardized error response.
func sendError(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, models.ErrorResponse{
		Success: false,
		Error: models.ErrorDetail{
			Message: message,
			Details: map[string]interface{}{"code": code},
		},
	})
}
