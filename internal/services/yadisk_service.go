package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LinkResolver turns a public disk-sharing link into a direct download URL.
type LinkResolver interface {
	Resolve(ctx context.Context, publicLink string) (string, error)
}

// YaDiskService resolves Yandex Disk public links through the public
// resources API.
type YaDiskService struct {
	apiURL string
	client *http.Client
	log    *zap.Logger
}

func NewYaDiskService(apiURL string, timeout time.Duration, log *zap.Logger) *YaDiskService {
	return &YaDiskService{
		apiURL: strings.TrimRight(apiURL, "/"),
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

type yaDiskDownload struct {
	Href string `json:"href"`
}

func (s *YaDiskService) Resolve(ctx context.Context, publicLink string) (string, error) {
	link := strings.TrimSpace(publicLink)
	if link == "" {
		return "", Validationf("Yandex Disk link is required")
	}

	endpoint := fmt.Sprintf("%s/v1/disk/public/resources/download?public_key=%s", s.apiURL, url.QueryEscape(link))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", Upstream("Failed to resolve Yandex Disk link. Ensure the link is public and points to a file.", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("yandex disk request failed", zap.Error(err))
		return "", Upstream("Failed to resolve Yandex Disk link. Ensure the link is public and points to a file.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		s.log.Info("yandex disk rejected link", zap.Int("status", resp.StatusCode))
		return "", Upstream("Failed to resolve Yandex Disk link. Ensure the link is public and points to a file.",
			fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload yaDiskDownload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Href == "" {
		return "", Upstream("Yandex Disk did not return a direct download URL", err)
	}
	return payload.Href, nil
}
