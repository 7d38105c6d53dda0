package custhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/axfleet/eventwatch/internal/logger"

	"github.com/icholy/digest"
	"github.com/motemen/go-loghttp"
	"go.uber.org/zap"
)

type Options struct {
	timeout               time.Duration
	responseHeaderTimeout time.Duration
	digestUsername        string
	digestPassword        string
	logRequests           bool
}

type ClientOptioner func(o *Options)

func WithTimeout(dur time.Duration) ClientOptioner {
	return func(o *Options) {
		o.timeout = dur
	}
}

// WithResponseHeaderTimeout bounds the wait for response headers only.
// Unlike WithTimeout it leaves body reads without a deadline, which
// streaming endpoints need.
func WithResponseHeaderTimeout(dur time.Duration) ClientOptioner {
	return func(o *Options) {
		o.responseHeaderTimeout = dur
	}
}

func WithDigestAuth(username string, password string) ClientOptioner {
	return func(o *Options) {
		o.digestUsername = username
		o.digestPassword = password
	}
}

func WithRequestLogging() ClientOptioner {
	return func(o *Options) {
		o.logRequests = true
	}
}

func (o *Options) hasDigestAuth() bool {
	return o.digestUsername != "" && o.digestPassword != ""
}

func NewHttpClient(ctx context.Context, opts ...ClientOptioner) *http.Client {
	options := &Options{}
	for _, o := range opts {
		o(options)
	}

	transport := http.DefaultTransport
	if options.responseHeaderTimeout > 0 {
		transport = &http.Transport{
			ResponseHeaderTimeout: options.responseHeaderTimeout,
		}
	}
	if options.hasDigestAuth() {
		transport = &digest.Transport{
			Username:  options.digestUsername,
			Password:  options.digestPassword,
			Transport: transport,
		}
	}
	if options.logRequests {
		transport = &loghttp.Transport{
			Transport: transport,
			LogRequest: func(req *http.Request) {
				logger.SDebug("http request",
					zap.String("method", req.Method),
					zap.String("url", req.URL.String()))
			},
			LogResponse: func(resp *http.Response) {
				logger.SDebug("http response",
					zap.Int("code", resp.StatusCode),
					zap.String("url", resp.Request.URL.String()))
			},
		}
	}

	client := &http.Client{
		Timeout:   options.timeout,
		Transport: transport,
	}
	return client
}

type HttpRequestOptions struct {
	headers map[string]string
	body    []byte
	query   url.Values
}

type HttpRequestOptioner func(o *HttpRequestOptions)

func WithHeader(key string, value string) HttpRequestOptioner {
	return func(o *HttpRequestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

func WithJSONBody(body interface{}) HttpRequestOptioner {
	return func(o *HttpRequestOptions) {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			logger.SDebug("failed to marshal JSON body",
				zap.Error(err))
			return
		}
		o.body = bodyBytes
	}
}

func WithQuery(key string, value string) HttpRequestOptioner {
	return func(o *HttpRequestOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		o.query.Set(key, value)
	}
}

func WithContentType(contentType string) HttpRequestOptioner {
	return func(o *HttpRequestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers["Content-Type"] = contentType
	}
}

func NewHttpRequest(ctx context.Context, url *url.URL, method string, options ...HttpRequestOptioner) (*http.Request, error) {
	reqOptions := &HttpRequestOptions{}
	for _, o := range options {
		o(reqOptions)
	}

	var bodyReader io.Reader
	if reqOptions.body != nil {
		bodyReader = bytes.NewReader(reqOptions.body)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		method,
		url.String(),
		bodyReader)
	if err != nil {
		logger.SDebug("unable to create new http request",
			zap.Error(err))
		return nil, err
	}

	if reqOptions.query != nil {
		req.URL.RawQuery = reqOptions.query.Encode()
	}
	for key, value := range reqOptions.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

func JSONResponse(resp *http.Response, dest interface{}) error {
	body := resp.Body
	defer body.Close()

	bodyBytes, err := io.ReadAll(body)
	if err != nil {
		logger.SDebug("failed to read HTTP response body",
			zap.Error(err))
		return err
	}

	if err := json.Unmarshal(bodyBytes, dest); err != nil {
		logger.SDebug("failed to unmarshal JSON response",
			zap.Error(err))
		return err
	}

	return nil
}
