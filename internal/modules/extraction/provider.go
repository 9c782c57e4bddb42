package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/tenderiq/core/internal/config"
	"go.uber.org/zap"
)

// Provider turns a raw document into plain text.
type Provider interface {
	// ExtractText returns the text content of the document together with
	// whether OCR was involved and, if so, its reported confidence.
	ExtractText(ctx context.Context, filename string, data []byte) (text string, ocrUsed bool, ocrConfidence *float64, err error)
}

// PDFProvider extracts embedded text from digital PDFs. It cannot handle
// scanned documents, those come back empty.
type PDFProvider struct{}

func NewPDFProvider() *PDFProvider {
	return &PDFProvider{}
}

func (p *PDFProvider) ExtractText(ctx context.Context, filename string, data []byte) (string, bool, *float64, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		// Treat anything else as plain text.
		return string(data), false, nil, nil
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false, nil, fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", false, nil, err
		}
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	return sb.String(), false, nil, nil
}

// OCRProvider sends the document to an external OCR backend and falls back
// to plain PDF extraction when the backend is unreachable or unconfigured.
type OCRProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
	fallback *PDFProvider
	log      *zap.Logger
}

func NewOCRProvider(cfg config.ExtractionConfig, log *zap.Logger) *OCRProvider {
	return &OCRProvider{
		endpoint: strings.TrimRight(strings.TrimSpace(cfg.OCREndpoint), "/"),
		apiKey:   strings.TrimSpace(cfg.OCRAPIKey),
		client:   &http.Client{Timeout: 120 * time.Second},
		fallback: NewPDFProvider(),
		log:      log,
	}
}

type ocrResponse struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence"`
	Error      string   `json:"error"`
}

func (p *OCRProvider) ExtractText(ctx context.Context, filename string, data []byte) (string, bool, *float64, error) {
	if p.endpoint == "" {
		return p.fallback.ExtractText(ctx, filename, data)
	}

	text, confidence, err := p.callOCR(ctx, filename, data)
	if err != nil {
		p.log.Warn("OCR backend failed, falling back to plain extraction",
			zap.String("filename", filename),
			zap.Error(err),
		)
		return p.fallback.ExtractText(ctx, filename, data)
	}
	return text, true, confidence, nil
}

func (p *OCRProvider) callOCR(ctx context.Context, filename string, data []byte) (string, *float64, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", nil, err
	}
	if _, err := part.Write(data); err != nil {
		return "", nil, err
	}
	if err := writer.Close(); err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/ocr", &body)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", nil, fmt.Errorf("ocr backend status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed ocrResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", nil, err
	}
	if parsed.Error != "" {
		return "", nil, errors.New(parsed.Error)
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return "", nil, errors.New("ocr backend returned empty text")
	}
	return parsed.Text, parsed.Confidence, nil
}
