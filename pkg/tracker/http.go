package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	schema "github.com/turbokube/storemeta/pkg/schema/v1"
	"go.uber.org/zap"
)

// HTTPTracker updates pipeline run metadata over the tracker's rest api.
type HTTPTracker struct {
	baseURL   string
	namespace string
	token     string
	client    *http.Client
}

func NewHTTPTracker(config schema.Tracker) *HTTPTracker {
	return &HTTPTracker{
		baseURL:   strings.TrimSuffix(config.URL, "/"),
		namespace: config.Namespace,
		token:     config.Token,
		client:    http.DefaultClient,
	}
}

func (t *HTTPTracker) UpdateAnnotations(ctx context.Context, run string, annotations map[string]string) error {
	return t.patch(ctx, run, "annotations", annotations)
}

func (t *HTTPTracker) UpdateLabels(ctx context.Context, run string, labels map[string]string) error {
	return t.patch(ctx, run, "labels", labels)
}

func (t *HTTPTracker) patch(ctx context.Context, run string, kind string, values map[string]string) error {
	body, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	url := fmt.Sprintf("%s/namespaces/%s/pipelineruns/%s/%s", t.baseURL, t.namespace, run, kind)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request %s: %w", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	zap.L().Debug("tracker update",
		zap.String("kind", kind),
		zap.String("run", run),
		zap.Int("keys", len(values)),
	)
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("update %s on %s: %w", kind, run, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		zap.L().Debug("tracker rejected update",
			zap.String("kind", kind),
			zap.String("status", resp.Status),
			zap.ByteString("body", detail),
		)
		return fmt.Errorf("update %s on %s: %s", kind, run, resp.Status)
	}
	return nil
}
