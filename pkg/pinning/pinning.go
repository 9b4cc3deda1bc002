package pinning

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/skillified/skillified-api/internal/observability"
)

// Pinner submits opaque blobs to a content-addressed store and returns the
// content identifier. Pinning identical bytes yields an identical identifier,
// so retries never create duplicate content.
type Pinner interface {
	Pin(ctx context.Context, name string, data []byte) (string, error)
}

// Config contains credentials for a Pinata-compatible pinning endpoint.
type Config struct {
	Endpoint       string
	APIKey         string
	APISecret      string
	GatewayBaseURL string
	RequestTimeout time.Duration
}

// Service implements Pinner over the pinning HTTP API.
type Service struct {
	http    *resty.Client
	gateway string
	logger  zerolog.Logger
}

// New constructs a pinning service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("pinning endpoint must be provided")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("pinning credentials must be provided")
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetHeader("pinata_api_key", cfg.APIKey).
		SetHeader("pinata_secret_api_key", cfg.APISecret)

	return &Service{
		http:    client,
		gateway: strings.TrimSuffix(cfg.GatewayBaseURL, "/"),
		logger:  logger.With().Str("component", "pinning").Logger(),
	}, nil
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// Pin uploads the blob and returns its content identifier.
func (s *Service) Pin(ctx context.Context, name string, data []byte) (string, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetFileReader("file", name, strings.NewReader(string(data))).
		Post("/pinning/pinFileToIPFS")
	if err != nil {
		observability.Pins().WithLabelValues("error").Inc()
		return "", fmt.Errorf("pin %s: %w", name, err)
	}
	if resp.IsError() {
		observability.Pins().WithLabelValues("error").Inc()
		return "", fmt.Errorf("pin %s: unexpected status %d", name, resp.StatusCode())
	}

	var result pinResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		observability.Pins().WithLabelValues("error").Inc()
		return "", fmt.Errorf("decode pin response: %w", err)
	}
	if result.IpfsHash == "" {
		observability.Pins().WithLabelValues("error").Inc()
		return "", fmt.Errorf("pin %s: empty content id in response", name)
	}

	observability.Pins().WithLabelValues("ok").Inc()
	s.logger.Info().Str("name", name).Str("cid", result.IpfsHash).Msg("content pinned")

	return result.IpfsHash, nil
}

// GatewayURL builds the public fetch URL for a pinned content identifier.
func (s *Service) GatewayURL(cid string) string {
	return GatewayURL(s.gateway, cid)
}

// GatewayURL builds a public content-addressed fetch URL.
func GatewayURL(gatewayBase, cid string) string {
	if cid == "" {
		return ""
	}
	base := strings.TrimSuffix(gatewayBase, "/")
	if base == "" {
		base = "https://ipfs.io/ipfs"
	}
	return fmt.Sprintf("%s/%s", base, cid)
}
