// pkg/utils/media_fetcher.go
package utils

import (
	"bufio"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"math/rand"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	utls "github.com/refraction-networking/utls"
	proxy "golang.org/x/net/proxy"
)

// MediaFile is a downloaded media object ready for upload.
type MediaFile struct {
	Name string
	MIME string
	Data []byte
}

// MediaFetcherInterface downloads a media URL into memory.
type MediaFetcherInterface interface {
	Fetch(ctx context.Context, rawURL string) (*MediaFile, error)
}

// browserProfile pairs a TLS ClientHello fingerprint with matching
// User-Agent strings. Hosts serving user media often reject clients whose
// TLS fingerprint does not match any browser.
type browserProfile struct {
	helloID    utls.ClientHelloID
	userAgents []string
}

var browserProfiles = []browserProfile{
	{
		helloID: utls.HelloChrome_Auto,
		userAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
	},
	{
		helloID: utls.HelloFirefox_Auto,
		userAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
			"Mozilla/5.0 (X11; Linux x86_64; rv:122.0) Gecko/20100101 Firefox/122.0",
		},
	},
	{
		helloID: utls.HelloSafari_Auto,
		userAgents: []string{
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
		},
	},
}

var acceptLanguages = []string{
	"en-US,en;q=0.9",
	"en-GB,en;q=0.9,en-US;q=0.8",
	"de-DE,de;q=0.9,en;q=0.8",
}

// ProxyRotator hands out proxy URLs round-robin. Nil-safe: a rotator over an
// empty list always returns nil, meaning a direct connection.
type ProxyRotator struct {
	parsedURLs []*url.URL
	currentIdx uint32
}

func NewProxyRotator(proxyURLs []string) (*ProxyRotator, error) {
	rotator := &ProxyRotator{}
	for _, rawURL := range proxyURLs {
		parsedURL, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse proxy URL %s: %w", MaskProxyURL(rawURL), err)
		}
		rotator.parsedURLs = append(rotator.parsedURLs, parsedURL)
	}
	return rotator, nil
}

func (r *ProxyRotator) Next() *url.URL {
	if len(r.parsedURLs) == 0 {
		return nil
	}
	idx := atomic.AddUint32(&r.currentIdx, 1) % uint32(len(r.parsedURLs))
	return r.parsedURLs[idx]
}

// fingerprintDialer establishes TLS connections with a browser ClientHello,
// optionally through an HTTP CONNECT or SOCKS5 proxy.
type fingerprintDialer struct {
	proxyURL *url.URL
	profile  browserProfile
}

func newFingerprintDialer(proxyURL *url.URL) *fingerprintDialer {
	return &fingerprintDialer{
		proxyURL: proxyURL,
		profile:  browserProfiles[rand.Intn(len(browserProfiles))],
	}
}

func (d *fingerprintDialer) DialTLSContext(ctx context.Context, network, addr string) (net.Conn, error) {
	var conn net.Conn
	var err error

	if d.proxyURL == nil {
		var dialer net.Dialer
		conn, err = dialer.DialContext(ctx, network, addr)
		if err != nil {
			return nil, fmt.Errorf("direct dial: %w", err)
		}
	} else {
		conn, err = d.dialThroughProxy(ctx, network, addr)
		if err != nil {
			return nil, fmt.Errorf("proxy dial: %w", err)
		}
	}

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	uconn := utls.UClient(conn, &utls.Config{ServerName: host}, d.profile.helloID)
	if err := uconn.Handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("uTLS handshake: %w", err)
	}

	return uconn, nil
}

func (d *fingerprintDialer) dialThroughProxy(ctx context.Context, network, addr string) (net.Conn, error) {
	switch d.proxyURL.Scheme {
	case "http", "https":
		conn, err := (&net.Dialer{Timeout: 30 * time.Second}).DialContext(ctx, network, d.proxyURL.Host)
		if err != nil {
			return nil, fmt.Errorf("dial HTTP proxy: %w", err)
		}

		fmt.Fprintf(conn, "CONNECT %s HTTP/1.1\r\nHost: %s\r\n", addr, addr)
		if d.proxyURL.User != nil {
			password, _ := d.proxyURL.User.Password()
			creds := base64.StdEncoding.EncodeToString([]byte(d.proxyURL.User.Username() + ":" + password))
			fmt.Fprintf(conn, "Proxy-Authorization: Basic %s\r\n", creds)
		}
		fmt.Fprintf(conn, "\r\n")

		resp, err := http.ReadResponse(bufio.NewReader(conn), &http.Request{Method: http.MethodConnect})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("read CONNECT response: %w", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			conn.Close()
			return nil, fmt.Errorf("proxy CONNECT failed: status %d", resp.StatusCode)
		}
		return conn, nil

	case "socks5":
		auth := &proxy.Auth{}
		if d.proxyURL.User != nil {
			auth.User = d.proxyURL.User.Username()
			if password, ok := d.proxyURL.User.Password(); ok {
				auth.Password = password
			}
		}

		dialer, err := proxy.SOCKS5("tcp", d.proxyURL.Host, auth, &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("create SOCKS5 dialer: %w", err)
		}

		if cd, ok := dialer.(proxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, addr)
		}
		return dialer.Dial(network, addr)

	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", d.proxyURL.Scheme)
	}
}

// MediaFetcher downloads media files with browser-like TLS fingerprints and
// headers, retrying with exponential backoff.
type MediaFetcher struct {
	client     *http.Client
	maxRetries int
	maxBytes   int64
	rotator    *ProxyRotator
}

func NewMediaFetcher(proxyURLs []string, maxRetries int, maxBytes int64) (*MediaFetcher, error) {
	rotator, err := NewProxyRotator(proxyURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy rotator: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if maxBytes <= 0 {
		maxBytes = 50 * 1024 * 1024
	}

	for i, proxyURL := range proxyURLs {
		fmt.Printf("Media proxy #%d: %s\n", i+1, MaskProxyURL(proxyURL))
	}

	fetcher := &MediaFetcher{
		maxRetries: maxRetries,
		maxBytes:   maxBytes,
		rotator:    rotator,
	}
	fetcher.client = &http.Client{
		Transport: fetcher.newTransport(),
		Timeout:   60 * time.Second,
	}

	return fetcher, nil
}

func (f *MediaFetcher) newTransport() http.RoundTripper {
	return roundTripFunc(func(req *http.Request) (*http.Response, error) {
		proxyURL := f.rotator.Next()
		dialer := newFingerprintDialer(proxyURL)

		transport := &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   false,
		}
		if proxyURL != nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
		if req.URL.Scheme == "https" {
			transport.DialTLSContext = dialer.DialTLSContext
		}

		reqCopy := req.Clone(req.Context())
		reqCopy.Header.Set("User-Agent", dialer.profile.userAgents[rand.Intn(len(dialer.profile.userAgents))])
		reqCopy.Header.Set("Accept", "image/avif,image/webp,image/apng,video/*,*/*;q=0.8")
		reqCopy.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))])

		return transport.RoundTrip(reqCopy)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Fetch downloads rawURL into memory, capped at the configured size.
func (f *MediaFetcher) Fetch(ctx context.Context, rawURL string) (*MediaFile, error) {
	var lastErr error

	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			fmt.Printf("Retrying media download after %v (attempt %d/%d)\n", backoff, attempt+1, f.maxRetries)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		file, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return file, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("all %d download attempts failed: %w", f.maxRetries, lastErr)
}

func (f *MediaFetcher) fetchOnce(ctx context.Context, rawURL string) (*MediaFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading media", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading media body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("media exceeds size limit of %d bytes", f.maxBytes)
	}

	name := FilenameFromURL(rawURL)
	return &MediaFile{
		Name: name,
		MIME: InferMIMEType(name, resp.Header.Get("Content-Type")),
		Data: data,
	}, nil
}

// FilenameFromURL extracts the last path element of a URL, generating a
// unique name when the URL has none.
func FilenameFromURL(rawURL string) string {
	name := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		name = path.Base(parsed.Path)
	}
	if name == "" || name == "." || name == "/" {
		name = "upload-" + uuid.New().String() + ".jpg"
	}
	return name
}

// InferMIMEType resolves a media MIME type from the filename extension,
// falling back to the server-reported Content-Type and finally to the
// defaults the submit path understands.
func InferMIMEType(filename, contentType string) string {
	if mimeType := mime.TypeByExtension(path.Ext(filename)); mimeType != "" {
		return mimeType
	}

	if contentType != "" {
		if mimeType, _, err := mime.ParseMediaType(contentType); err == nil && mimeType != "application/octet-stream" {
			return mimeType
		}
	}

	if strings.HasSuffix(strings.ToLower(filename), ".mp4") {
		return "video/mp4"
	}
	return "image/jpeg"
}

// MaskProxyURL hides proxy credentials for logging.
func MaskProxyURL(proxyURL string) string {
	if !strings.Contains(proxyURL, "@") {
		return proxyURL
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return "[masked]"
	}

	if parsedURL.User != nil {
		username := parsedURL.User.Username()
		return strings.Replace(proxyURL, parsedURL.User.String(), username+":****", 1)
	}

	return proxyURL
}
