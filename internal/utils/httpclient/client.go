package httpclient

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bagel786/TickTracker2.0/internal/config"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const defaultTimeoutSeconds = 10

// NewHTTPClient 通用HTTP客户端构建方法（支持代理、超时、限流、自动解压）
func NewHTTPClient(cfg *config.SourceConfig, logger *logrus.Logger) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		IdleConnTimeout:     30 * time.Second,
		DisableCompression:  false,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	// 配置代理
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logger.WithError(err).WithField("proxy", cfg.Proxy).Warn("代理地址解析失败，将不使用代理")
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
			logger.WithField("proxy", cfg.Proxy).Info("HTTP客户端已配置代理")
		}
	}

	var rt http.RoundTripper = &compressedTransport{transport: transport, logger: logger}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		rt = &rateLimitedTransport{
			transport: rt,
			limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), burst),
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}
	return &http.Client{
		Timeout:   time.Duration(timeout) * time.Second,
		Transport: rt,
	}
}

// rateLimitedTransport 按数据源配额限流，等待受请求 context 约束
type rateLimitedTransport struct {
	transport http.RoundTripper
	limiter   *rate.Limiter
}

func (r *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return r.transport.RoundTrip(req)
}

type compressedTransport struct {
	transport http.RoundTripper
	logger    *logrus.Logger
}

func (c *compressedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// 处理gzip解压
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			c.logger.WithError(err).Warn("gzip解压失败，返回原始响应")
			return resp, nil
		}
		resp.Body = &gzipReadCloser{
			Reader: gzReader,
			closer: resp.Body,
		}
		resp.Header.Del("Content-Encoding")
		resp.ContentLength = -1
	}

	return resp, nil
}

// gzipReadCloser 关闭时同时关闭解压 reader 与原始响应体
type gzipReadCloser struct {
	*gzip.Reader
	closer io.ReadCloser
}

func (g *gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		_ = g.closer.Close()
		return err
	}
	return g.closer.Close()
}
