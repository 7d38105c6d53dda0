package service

import (
	"context"
	"time"

	"github.com/axfleet/eventwatch/helper"
	"github.com/axfleet/eventwatch/internal/cache"
	custcon "github.com/axfleet/eventwatch/internal/concurrent"
	"github.com/axfleet/eventwatch/internal/configs"
	"github.com/axfleet/eventwatch/internal/logger"
	custmqtt "github.com/axfleet/eventwatch/internal/mqtt"
	"github.com/axfleet/eventwatch/models/events"

	"github.com/bytedance/sonic"
	"github.com/dgraph-io/ristretto"
	"github.com/eclipse/paho.golang/paho"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

const dedupTTL = time.Minute

// DetectionForwarder publishes detections to the configured MQTT
// topic. Stateful camera events fire twice with identical payloads,
// so forwarded detections are deduplicated within a short window.
type DetectionForwarder struct {
	pool  *ants.Pool
	cache *ristretto.Cache
	topic string
}

func NewDetectionForwarder(globalConfigs *configs.EventStoreConfigs) *DetectionForwarder {
	return &DetectionForwarder{
		pool:  custcon.New(10),
		cache: cache.Cache(),
		topic: globalConfigs.Topic,
	}
}

func (f *DetectionForwarder) Forward(detection *events.ObjectDetection) {
	key := detection.Key()
	if _, found := f.cache.Get(key); found {
		logger.SDebug("Forward: duplicate detection suppressed",
			zap.String("key", key))
		return
	}
	f.cache.SetWithTTL(key, struct{}{}, 1, dedupTTL)

	f.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
		defer cancel()

		payload, err := sonic.Marshal(detection)
		if err != nil {
			helper.EventHandlerErrorHandler(err)
			return
		}

		client := custmqtt.Client()
		if client == nil {
			logger.SDebug("Forward: MQTT client not initialized")
			return
		}
		if _, err := client.Publish(ctx, &paho.Publish{
			Topic:   f.topic,
			QoS:     1,
			Payload: payload,
		}); err != nil {
			helper.EventHandlerErrorHandler(err)
			return
		}
		logger.SDebug("Forward: detection published",
			zap.String("topic", f.topic),
			zap.String("class", detection.ObjectClass))
	})
}

func (f *DetectionForwarder) Shutdown() {
	f.pool.Release()
}
