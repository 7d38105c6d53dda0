package axis

import (
	"context"
	"net/http"
	"net/url"
	"time"

	custhttp "github.com/axfleet/eventwatch/internal/http"
	"github.com/axfleet/eventwatch/internal/logger"
	"github.com/icholy/digest"
	fastshot "github.com/opus-domini/fast-shot"
	"go.uber.org/zap"
)

type Client interface {
	Events(credentials *Credentials) EventApiInterface
	System(credentials *Credentials) SystemApiInterface
}

type client struct {
	options *axisOptions
}

func NewClient(options ...AxisClientOptioner) (Client, error) {
	opts := axisOptions{}
	for _, o := range options {
		o(&opts)
	}
	return &client{
		options: &opts,
	}, nil
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Ip       string `json:"ip"`
}

func (c *client) getBaseUrl(opts *Credentials) string {
	ip := opts.Ip

	u, err := url.Parse(ip)
	if err != nil {
		logger.SError("failed to parse camera IP", zap.Error(err))
		return ""
	}
	if u.Scheme == "" {
		u, err = url.Parse("http://" + ip)
		if err != nil {
			logger.SError("failed to parse camera IP", zap.Error(err))
			return ""
		}
	}
	u.Scheme = "http"
	u = u.JoinPath("/axis-cgi")
	return u.String()
}

func (c *client) Events(credentials *Credentials) EventApiInterface {
	httpClient := custhttp.NewHttpClient(
		context.Background(),
		custhttp.WithDigestAuth(credentials.Username, credentials.Password),
		custhttp.WithResponseHeaderTimeout(c.options.connectTimeoutOrDefault()),
		custhttp.WithRequestLogging())
	return &eventApiClient{
		httpClient: httpClient,
		baseUrl:    c.getBaseUrl(credentials),
	}
}

func (c *client) System(credentials *Credentials) SystemApiInterface {
	builder := fastshot.NewClient(c.getBaseUrl(credentials))
	clientConfigs := builder.Config()
	clientConfigs.SetTimeout(c.options.connectTimeoutOrDefault())
	clientConfigs.SetFollowRedirects(true)
	clientConfigs.SetCustomTransport(&digest.Transport{
		Username:  credentials.Username,
		Password:  credentials.Password,
		Transport: &http.Transport{},
	})
	return &systemApiClient{
		restClient: builder.Build(),
	}
}

func (o *axisOptions) connectTimeoutOrDefault() time.Duration {
	if o.connectTimeout > 0 {
		return o.connectTimeout
	}
	return 60 * time.Second
}
