package service

import (
	"sync"
)

var once sync.Once

var (
	eventWatchService *EventWatchService
)

func Init() {
	once.Do(func() {
		eventWatchService = NewEventWatchService()
	})
}

func GetEventWatchService() *EventWatchService {
	return eventWatchService
}

func Shutdown() {
	if eventWatchService != nil {
		eventWatchService.Shutdown()
	}
}
