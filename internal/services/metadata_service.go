package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/markusmobius/go-trafilatura"
	cache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

const (
	metadataUserAgent   = "Cultivate-Bot/1.0 (+https://cultivate.example.com/bot)"
	metadataMaxBodySize = 2 * 1024 * 1024
	metadataDomainRate  = 1.0 // requests per second per domain
)

// MetadataService fetches page titles for saved resources. Everything
// here is best-effort: callers fall back to the raw URL on any error.
// Fetching is polite: robots.txt is honored and each domain is rate
// limited.
type MetadataService struct {
	client     *http.Client
	robots     *robotsChecker
	titleCache *cache.Cache
	limiters   sync.Map // domain -> *rate.Limiter
}

// NewMetadataService creates a new metadata service. timeout bounds
// each page fetch end to end.
func NewMetadataService(timeout time.Duration) *MetadataService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &MetadataService{
		client:     &http.Client{Timeout: timeout},
		robots:     newRobotsChecker(metadataUserAgent),
		titleCache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

// FetchTitle resolves a URL to its page title. Returns an error (or an
// empty title) when the page cannot or should not be fetched; callers
// treat both as "use the URL itself".
func (s *MetadataService) FetchTitle(ctx context.Context, urlStr string) (string, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return "", fmt.Errorf("unsupported url %q", urlStr)
	}

	if cached, found := s.titleCache.Get(urlStr); found {
		return cached.(string), nil
	}

	allowed, err := s.robots.canFetch(ctx, parsedURL)
	if err != nil {
		log.Printf("⚠️ [METADATA] robots.txt check failed for %s: %v", parsedURL.Host, err)
	}
	if !allowed {
		metadataFetchesTotal.WithLabelValues("blocked").Inc()
		return "", fmt.Errorf("blocked by robots.txt: %s", urlStr)
	}

	if err := s.domainLimiter(parsedURL.Host).Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	title, err := s.fetch(ctx, parsedURL)
	if err != nil {
		metadataFetchesTotal.WithLabelValues("error").Inc()
		return "", err
	}

	s.titleCache.SetDefault(urlStr, title)
	metadataFetchesTotal.WithLabelValues("ok").Inc()
	return title, nil
}

func (s *MetadataService) fetch(ctx context.Context, pageURL *url.URL) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", metadataUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error %d fetching %s", resp.StatusCode, pageURL)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") && !strings.Contains(contentType, "xml") {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, metadataMaxBodySize))
	if err != nil {
		return "", fmt.Errorf("failed to read page: %w", err)
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL: pageURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to extract metadata: %w", err)
	}
	if result == nil || strings.TrimSpace(result.Metadata.Title) == "" {
		return "", fmt.Errorf("no title found at %s", pageURL)
	}
	return strings.TrimSpace(result.Metadata.Title), nil
}

func (s *MetadataService) domainLimiter(domain string) *rate.Limiter {
	if limiter, ok := s.limiters.Load(domain); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := s.limiters.LoadOrStore(domain, rate.NewLimiter(rate.Limit(metadataDomainRate), 2))
	return limiter.(*rate.Limiter)
}

// robotsChecker fetches and caches robots.txt per domain
type robotsChecker struct {
	cache     *cache.Cache
	userAgent string
	client    *http.Client
}

func newRobotsChecker(userAgent string) *robotsChecker {
	return &robotsChecker{
		cache:     cache.New(24*time.Hour, 1*time.Hour),
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// canFetch reports whether robots.txt allows fetching the URL. Missing
// or unparseable robots.txt allows by default.
func (rc *robotsChecker) canFetch(ctx context.Context, pageURL *url.URL) (bool, error) {
	domain := pageURL.Scheme + "://" + pageURL.Host

	if cached, found := rc.cache.Get(domain); found {
		group := cached.(*robotstxt.RobotsData).FindGroup(rc.userAgent)
		return group.Test(pageURL.Path), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, domain+"/robots.txt", nil)
	if err != nil {
		return true, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", rc.userAgent)

	resp, err := rc.client.Do(req)
	if err != nil {
		return true, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return true, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1*1024*1024))
	if err != nil {
		return true, nil
	}
	robotsData, err := robotstxt.FromBytes(body)
	if err != nil {
		return true, nil
	}

	rc.cache.SetDefault(domain, robotsData)
	group := robotsData.FindGroup(rc.userAgent)
	return group.Test(pageURL.Path), nil
}
