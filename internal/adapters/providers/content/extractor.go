package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	"github.com/makerworks/safetytraining/backend/pkg/config"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

const (
	defaultUserAgent   = "SafetyTrainingBot/1.0 (manual ingestion)"
	defaultHTTPTimeout = 30 * time.Second
	maxDocumentBytes   = 20 << 20 // 20 MiB
)

// Extractor fetches instruction manuals and extracts their plain text. Results
// are memoized in the injected cache; only text that passed the non-empty check
// is ever stored.
type Extractor struct {
	httpClient *http.Client
	userAgent  string
	cache      providers.CacheProvider
}

// NewExtractor creates a new document text extractor.
func NewExtractor(cfg *config.DocumentsConfig, cache providers.CacheProvider) *Extractor {
	userAgent := defaultUserAgent
	timeout := defaultHTTPTimeout
	if cfg != nil {
		if cfg.UserAgent != "" {
			userAgent = cfg.UserAgent
		}
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
	}
	return NewExtractorWithOptions(userAgent, cache, &http.Client{Timeout: timeout})
}

// NewExtractorWithOptions allows overriding the HTTP client (used for tests).
func NewExtractorWithOptions(userAgent string, cache providers.CacheProvider, httpClient *http.Client) *Extractor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Extractor{
		httpClient: httpClient,
		userAgent:  userAgent,
		cache:      cache,
	}
}

// ExtractText returns the plain text behind url. Guaranteed non-empty on
// success; failures carry the URL and the underlying cause.
func (e *Extractor) ExtractText(ctx context.Context, rawURL string) (string, error) {
	if e.cache != nil {
		if cached, err := e.cache.Get(ctx, rawURL); err == nil && len(cached) > 0 {
			return string(cached), nil
		}
	}

	text, err := e.extract(ctx, rawURL)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.New(apperrors.ErrorTypeEmptyContent,
			fmt.Sprintf("no text extracted from %s", rawURL), nil)
	}

	if e.cache != nil {
		// Best effort; a concurrent writer storing the same URL is harmless.
		_ = e.cache.Set(ctx, rawURL, []byte(text), 0)
	}
	return text, nil
}

func (e *Extractor) extract(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", apperrors.New(apperrors.ErrorTypeValidation,
			fmt.Sprintf("invalid manual url %s", rawURL), err)
	}

	if isLinkedDocURL(parsed) {
		return e.extractLinkedDoc(ctx, parsed)
	}

	data, err := e.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(path.Ext(parsed.Path))
	switch ext {
	case ".pdf":
		text, err := extractPDFText(data)
		if err != nil {
			return "", apperrors.New(apperrors.ErrorTypeUnsupportedFormat,
				fmt.Sprintf("failed to parse pdf at %s", rawURL), err)
		}
		return text, nil
	case ".docx", ".doc":
		text, err := extractDocxText(data)
		if err != nil {
			return "", apperrors.New(apperrors.ErrorTypeUnsupportedFormat,
				fmt.Sprintf("failed to parse word document at %s", rawURL), err)
		}
		return text, nil
	case ".txt", "":
		// Plain text, or no extension: best-effort UTF-8 decode.
		return strings.ToValidUTF8(string(data), ""), nil
	default:
		return "", apperrors.New(apperrors.ErrorTypeUnsupportedFormat,
			fmt.Sprintf("unsupported manual format %q at %s", ext, rawURL), nil)
	}
}

func (e *Extractor) extractLinkedDoc(ctx context.Context, parsed *url.URL) (string, error) {
	exportURL, err := rewriteLinkedDocURL(parsed)
	if err != nil {
		return "", err
	}

	data, err := e.fetch(ctx, exportURL)
	if err != nil {
		return "", err
	}

	body := string(data)
	if looksLikeHTML(body) {
		return StripHTML(body), nil
	}
	return strings.ToValidUTF8(body, ""), nil
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeValidation,
			fmt.Sprintf("invalid manual url %s", rawURL), err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError(fmt.Sprintf("failed to fetch %s", rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("fetching %s returned status %d", rawURL, resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, apperrors.NewExternalError(fmt.Sprintf("failed to read body of %s", rawURL), err)
	}
	return data, nil
}

var _ providers.ContentProvider = (*Extractor)(nil)
