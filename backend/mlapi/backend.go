package mlapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/quaint/analyzer/backend"
	"github.com/quaint/analyzer/config"
	gotel "github.com/quaint/analyzer/otel"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errInvalidJSON = errors.New("upstream returned a body that is not JSON")

func (s *Backend) Init(_ context.Context, cfg config.MLAPI) error {
	if _, err := url.Parse(cfg.URL); err != nil {
		return fmt.Errorf("ML API url: %w", err)
	}
	s.Config = cfg

	if s.Client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !cfg.VerifySSL} //nolint:gosec

		var rt http.RoundTripper = transport
		if s.EnableTrace {
			rt = otelhttp.NewTransport(transport)
		}

		s.Client = &http.Client{
			Transport: rt,
			Timeout:   cfg.Timeout,
			// Redirects are reported as a non-2xx status rather than followed
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}

	if !cfg.VerifySSL {
		log.Warn().Msg("ML API TLS certificate verification is disabled")
	}
	return nil
}

// Fetch Issues exactly one GET for path, with the query passed through as given
func (s *Backend) Fetch(ctx context.Context, path string, query url.Values) backend.Result {
	if s.EnableTrace {
		var span trace.Span
		ctx, span = gotel.GetTracer(ctx).Start(ctx, "ml-api "+path, gotel.ClientOptions)
		defer span.End()
		span.SetAttributes(attribute.String("ml_api.path", path), attribute.String("ml_api.query", query.Encode()))

		res := s.fetch(ctx, path, query)
		span.SetAttributes(attribute.String("ml_api.outcome", res.Outcome.String()))
		if res.Outcome != backend.Success {
			span.SetStatus(codes.Error, res.Outcome.String())
		}
		return res
	}
	return s.fetch(ctx, path, query)
}

func (s *Backend) fetch(ctx context.Context, path string, query url.Values) backend.Result {
	start := time.Now()
	res := s.doFetch(ctx, path, query)
	s.Metrics.RecordUpstream(path, res.Outcome.String(), time.Since(start))

	switch res.Outcome {
	case backend.Unreachable:
		log.Error().Err(res.Err).Str("path", path).Msg("ML API request failed")
	case backend.UpstreamError:
		log.Error().Str("path", path).Int("status", res.Status).Msg("ML API error")
	case backend.AuthFailed:
		log.Error().Str("path", path).Int("status", http.StatusUnauthorized).Msg("ML API rejected credential")
	}
	return res
}

func (s *Backend) doFetch(ctx context.Context, path string, query url.Values) backend.Result {
	req, err := s.newRequest(ctx, path, query)
	if err != nil {
		return backend.Unavailable(err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return backend.Unavailable(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		return backend.Unauthorized()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return backend.Unavailable(fmt.Errorf("read %s: %w", path, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backend.Failed(resp.StatusCode, describeFailure(resp.StatusCode, path, body))
	}

	if !json.Valid(body) {
		return backend.Unavailable(fmt.Errorf("%s: %w", path, errInvalidJSON))
	}
	return backend.Ok(body)
}

// Probe Single best-effort GET to the upstream health path. Never returns an error, failures are folded into the status.
func (s *Backend) Probe(ctx context.Context) backend.ProbeStatus {
	if s.EnableTrace {
		var span trace.Span
		ctx, span = gotel.GetTracer(ctx).Start(ctx, "ml-api "+healthPath, gotel.ClientOptions)
		defer span.End()
	}

	status := s.probe(ctx)
	s.Metrics.RecordProbe(string(status))
	return status
}

func (s *Backend) probe(ctx context.Context) backend.ProbeStatus {
	req, err := s.newRequest(ctx, healthPath, nil)
	if err != nil {
		log.Error().Err(err).Msg("ML API health check failed")
		return backend.ProbeUnreachable
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("ML API health check failed")
		return backend.ProbeUnreachable
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusOK {
		return backend.Connected
	}
	log.Warn().Int("status", resp.StatusCode).Msg("ML API health check returned non-OK status")
	return backend.ProbeError
}

func (s *Backend) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	target := strings.TrimSuffix(s.Config.URL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Config.Key)
	return req, nil
}

// describeFailure Prefers the upstream's own `detail` message when it sends one
func describeFailure(status int, path string, body []byte) string {
	msg := fmt.Sprintf("ML API returned %d %s for %s", status, http.StatusText(status), path)

	var payload struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if detail, ok := payload.Detail.(string); ok && detail != "" {
			return msg + ": " + detail
		}
	}
	return msg
}
