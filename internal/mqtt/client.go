package custmqtt

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/axfleet/eventwatch/internal/configs"
	"github.com/axfleet/eventwatch/internal/logger"
	"go.uber.org/zap"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
)

var globalClient *autopaho.ConnectionManager

func InitClient(ctx context.Context, options ...ClientOptioner) {
	globalClient = NewClient(ctx, options...)
}

func Client() *autopaho.ConnectionManager {
	return globalClient
}

func StopClient(ctx context.Context) {
	if globalClient == nil {
		return
	}
	if err := globalClient.Disconnect(ctx); err != nil {
		logger.SDebug("StopClient: disconnect error", zap.Error(err))
	}
}

func NewClient(ctx context.Context, options ...ClientOptioner) *autopaho.ConnectionManager {
	opts := &ClientOptions{}
	for _, opt := range options {
		opt(opts)
	}

	globalConfigs := opts.globalConfigs
	connUrl := url.URL{}
	if globalConfigs.Tls.IsEnabled() {
		connUrl.Scheme = "tls"
	} else {
		connUrl.Scheme = "mqtt"
	}
	hostname := globalConfigs.Host

	if globalConfigs.Port > 0 {
		hostname = fmt.Sprintf("%s:%d", globalConfigs.Host, globalConfigs.Port)
	}
	connUrl.Host = hostname

	clientConfigs := autopaho.ClientConfig{
		KeepAlive:         20,
		ConnectRetryDelay: time.Second * 5,
		ConnectTimeout:    time.Second * 2,
		BrokerUrls: []*url.URL{
			&connUrl,
		},
		Debug: logger.NewZapToPahoLogger(zap.L()),
		ClientConfig: paho.ClientConfig{
			ClientID: opts.clientId,
		},
	}

	if globalConfigs.Tls.IsEnabled() {
		clientConfigs.TlsCfg = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if globalConfigs.HasAuth() {
		clientConfigs.SetUsernamePassword(globalConfigs.Username, []byte(globalConfigs.Password))
	}

	if opts.reconCallback != nil {
		clientConfigs.OnConnectionUp = opts.reconCallback
	}

	if opts.connErrCallback != nil {
		clientConfigs.OnConnectError = opts.connErrCallback
	}

	if opts.clientErr != nil {
		clientConfigs.ClientConfig.OnClientError = opts.clientErr
	}

	connManager, err := autopaho.NewConnection(ctx, clientConfigs)
	if err != nil {
		logger.SFatal("MQTT connection failed",
			zap.Error(err))
		return nil
	}

	if err := connManager.AwaitConnection(ctx); err != nil {
		logger.SFatal("MQTT waiting for connection failed",
			zap.Error(err))
		return nil
	}

	return connManager
}

type ClientOptions struct {
	globalConfigs   *configs.EventStoreConfigs
	clientId        string
	reconCallback   func(cm *autopaho.ConnectionManager, connack *paho.Connack)
	connErrCallback func(err error)
	clientErr       func(err error)
}

type ClientOptioner func(options *ClientOptions)

func WithClientGlobalConfigs(configs *configs.EventStoreConfigs) ClientOptioner {
	return func(options *ClientOptions) {
		options.globalConfigs = configs
	}
}

func WithClientId(id string) ClientOptioner {
	return func(options *ClientOptions) {
		options.clientId = id
	}
}

func WithOnReconnection(cb func(cm *autopaho.ConnectionManager, connack *paho.Connack)) ClientOptioner {
	return func(options *ClientOptions) {
		options.reconCallback = cb
	}
}

func WithOnConnectError(cb func(err error)) ClientOptioner {
	return func(options *ClientOptions) {
		options.connErrCallback = cb
	}
}

func WithClientError(cb func(err error)) ClientOptioner {
	return func(options *ClientOptions) {
		options.clientErr = cb
	}
}
