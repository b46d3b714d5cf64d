// Package webhook posts finished movement reports to an external
// rendering service (PDF, print) over HTTP.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/binpoint/wms/internal/domain/models"
)

// Sink is a resty-backed report sink.
type Sink struct {
	httpClient *resty.Client
	path       string
	logger     *zap.Logger
}

// New builds a webhook sink posting to baseURL+path with an optional
// bearer token.
func New(baseURL, path, authToken string, logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if authToken != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", authToken))
	}

	return &Sink{httpClient: restyClient, path: path, logger: logger}
}

func (s *Sink) Name() string {
	return "webhook"
}

// apiError mirrors the renderer's error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Deliver posts the whole report as JSON. Non-2xx responses are errors.
func (s *Sink) Deliver(ctx context.Context, report models.MovementReport) error {
	errPayload := new(apiError)
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(report).
		SetError(errPayload).
		Post(s.path)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		if errPayload.Error.Message != "" {
			return fmt.Errorf("renderer rejected report (%d): %s", resp.StatusCode(), errPayload.Error.Message)
		}
		return fmt.Errorf("renderer rejected report: status %d", resp.StatusCode())
	}

	s.logger.Debug("report posted",
		zap.String("warehouse_id", report.WarehouseID),
		zap.Int("status", resp.StatusCode()))
	return nil
}
