package factory

import (
	"context"
	"sync"
	"time"

	"github.com/axfleet/eventwatch/internal/axis"
	"github.com/axfleet/eventwatch/internal/configs"
	"github.com/axfleet/eventwatch/internal/logger"

	"go.uber.org/zap"
)

var once sync.Once

var (
	axisClient axis.Client
)

func Init(ctx context.Context, configs *configs.Configs) {
	once.Do(func() {
		client, err := axis.NewClient(
			axis.WithConnectTimeout(
				time.Duration(configs.Camera.ConnectTimeoutSeconds) * time.Second),
		)
		if err != nil {
			logger.SFatal("factory.Init: axis.NewClient", zap.Error(err))
			return
		}
		axisClient = client
	})
}

func Axis() axis.Client {
	return axisClient
}
