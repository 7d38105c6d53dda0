package cache

import (
	"github.com/axfleet/eventwatch/internal/logger"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
)

var internalCache *ristretto.Cache

func Init() {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		logger.SFatal("cache.Init: ristretto.NewCache", zap.Error(err))
		return
	}
	internalCache = c
}

func Cache() *ristretto.Cache {
	return internalCache
}
