package main

import (
	"context"
	"time"

	"github.com/axfleet/eventwatch/biz/service"
	"github.com/axfleet/eventwatch/helper/factory"
	"github.com/axfleet/eventwatch/internal/app"
	"github.com/axfleet/eventwatch/internal/cache"
	"github.com/axfleet/eventwatch/internal/configs"
	"github.com/axfleet/eventwatch/internal/logger"
	custmqtt "github.com/axfleet/eventwatch/internal/mqtt"
	"go.uber.org/zap"
)

func main() {
	app.Run(
		time.Second*10,
		func(configs *configs.Configs, zl *zap.Logger) []app.Optioner {
			return []app.Optioner{
				app.WithFactoryHook(func() error {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()

					cache.Init()
					factory.Init(ctx, configs)

					if configs.MqttStore.Enabled {
						custmqtt.InitClient(
							ctx,
							custmqtt.WithClientGlobalConfigs(&configs.MqttStore),
							custmqtt.WithClientId("eventwatch"),
							custmqtt.WithOnConnectError(func(err error) {
								logger.SError("MQTT connection failed", zap.Error(err))
							}),
						)
					}

					service.Init()
					return nil
				}),
				app.WithEventWatcher(func() app.Watcher {
					return service.GetEventWatchService()
				}),
				app.WithShutdownHook(func(ctx context.Context) {
					custmqtt.StopClient(ctx)
					service.Shutdown()
					logger.Close()
				}),
			}
		},
	)
}
