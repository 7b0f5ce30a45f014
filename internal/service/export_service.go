package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"inspectkit/internal/config"
	"inspectkit/internal/model"
)

// ExportService hands report projections to an external PDF/DOCX renderer.
// Without a configured renderer (or when the call fails) it degrades to an
// inline JSON artifact so the operator still gets something to download.
type ExportService struct {
	config  *config.ExportConfig
	client  *http.Client
	reports *ReportService
}

// NewExportService creates a new export service
func NewExportService(reports *ReportService) *ExportService {
	cfg := config.DefaultExportConfig()
	return &ExportService{
		config:  cfg,
		reports: reports,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Export builds the report and renders it in the requested format
func (s *ExportService) Export(ctx context.Context, operatorID, templateID, format string, answers Answers) (*model.ExportResult, error) {
	if format != "pdf" && format != "docx" {
		format = "pdf"
	}

	report, err := s.reports.BuildReport(ctx, operatorID, templateID, answers)
	if err != nil {
		return nil, err
	}

	if !s.config.IsEnabled() {
		return s.inlineResult(report, format)
	}

	url, err := s.callRenderer(ctx, report, format)
	if err != nil {
		// Renderer unreachable; keep the report available inline.
		log.Printf("export renderer for template %s: %v", templateID, err)
		return s.inlineResult(report, format)
	}

	return &model.ExportResult{
		Format:     format,
		Status:     "ready",
		URL:        url,
		RenderedAt: time.Now(),
	}, nil
}

// callRenderer posts the report to the render service and returns the
// artifact URL
func (s *ExportService) callRenderer(ctx context.Context, report *model.Report, format string) (string, error) {
	reqBody := map[string]interface{}{
		"format": format,
		"report": report,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.Endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("renderer returned status %d", resp.StatusCode)
	}

	var rendered struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &rendered); err != nil {
		return "", err
	}
	if rendered.URL == "" {
		return "", fmt.Errorf("empty url from renderer")
	}
	return rendered.URL, nil
}

func (s *ExportService) inlineResult(report *model.Report, format string) (*model.ExportResult, error) {
	artifact, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	return &model.ExportResult{
		Format:     format,
		Status:     "rendered_inline",
		Artifact:   artifact,
		RenderedAt: time.Now(),
	}, nil
}
