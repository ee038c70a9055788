package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akeen90/nutrasafe-beta-sub001/internal/logger"
)

const (
	defaultImageConcurrency = 4
	defaultMaxImageBytes    = 10 << 20
	maxImageRedirects       = 3
)

var (
	ErrInsecureImageURL = errors.New("image url must use https")
	ErrBlockedAddress   = errors.New("image host is not publicly routable")
)

// Shared address space (RFC 6598) is not covered by netip's IsPrivate.
var carrierGradeNAT = netip.MustParsePrefix("100.64.0.0/10")

// LoadedImage is one successfully downloaded image. Index is its position in the request.
type LoadedImage struct {
	Index       int
	URL         string
	ContentType string
	Data        []byte
}

// DataURI encodes the image the way the recognition endpoint expects it.
func (i LoadedImage) DataURI() string {
	ct := i.ContentType
	if ct == "" {
		ct = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", ct, base64.StdEncoding.EncodeToString(i.Data))
}

// ImageBatchLoader downloads several images concurrently.
type ImageBatchLoader struct {
	client   *http.Client
	limit    int
	maxBytes int64
	// insecure permits plain http and internal hosts; only tests against httptest set it.
	insecure bool
	log      *logger.Logger
}

// NewImageBatchLoader creates a loader running at most limit downloads at once. A nil client
// is replaced by one that refuses to connect to loopback, private or link-local addresses.
func NewImageBatchLoader(client *http.Client, limit int, log *logger.Logger) *ImageBatchLoader {
	if client == nil {
		client = newPublicOnlyClient(20 * time.Second)
	}
	if limit <= 0 {
		limit = defaultImageConcurrency
	}
	return &ImageBatchLoader{client: client, limit: limit, maxBytes: defaultMaxImageBytes, log: log}
}

// newPublicOnlyClient checks every address the client dials, so neither a hostname that
// resolves internally nor a redirect can reach internal services.
func newPublicOnlyClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   rejectNonPublicAddress,
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			// No proxy: a proxy would dial the target on our behalf, past the check.
			Proxy:               nil,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxImageRedirects {
				return fmt.Errorf("stopped after %d redirects", maxImageRedirects)
			}
			if req.URL.Scheme != "https" {
				return ErrInsecureImageURL
			}
			return nil
		},
	}
}

func rejectNonPublicAddress(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	addr, err := netip.ParseAddr(host)
	if err != nil || !isPublicAddr(addr) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

func isPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsUnspecified(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast(),
		carrierGradeNAT.Contains(addr):
		return false
	}
	return true
}

// checkImageURL rejects URLs the loader must not fetch before any connection is made.
func (l *ImageBatchLoader) checkImageURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid image url: %w", err)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid image url: missing host")
	}
	switch {
	case u.Scheme == "https":
	case u.Scheme == "http" && l.insecure:
	default:
		return ErrInsecureImageURL
	}
	if addr, err := netip.ParseAddr(u.Hostname()); err == nil && !isPublicAddr(addr) && !l.insecure {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, addr)
	}
	return nil
}

// LoadAll fetches every URL and returns once all fetches have finished. Failed loads are
// logged and omitted; the survivors keep their request order.
func (l *ImageBatchLoader) LoadAll(ctx context.Context, urls []string) []LoadedImage {
	if len(urls) == 0 {
		return nil
	}

	slots := make([]*LoadedImage, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			img, err := l.load(gctx, u)
			if err != nil {
				l.log.Warn("[ImageBatchLoader] Failed to load image", "url", u, "error", err)
				return nil
			}
			img.Index = i
			slots[i] = img
			return nil
		})
	}
	// Goroutines never return errors; failures are dropped above.
	_ = g.Wait()

	out := make([]LoadedImage, 0, len(urls))
	for _, img := range slots {
		if img != nil {
			out = append(out, *img)
		}
	}
	return out
}

func (l *ImageBatchLoader) load(ctx context.Context, rawURL string) (*LoadedImage, error) {
	if err := l.checkImageURL(rawURL); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", l.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	return &LoadedImage{URL: rawURL, ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}
