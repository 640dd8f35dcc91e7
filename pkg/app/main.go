package app

import (
	"github.com/gorilla/sessions"

	"github.com/lvoinea/stuffkeeper/pkg/cache"
	"github.com/lvoinea/stuffkeeper/pkg/database"
	"github.com/lvoinea/stuffkeeper/pkg/events"
	"github.com/lvoinea/stuffkeeper/pkg/logger"
)

// Application carries the shared infrastructure every service needs; the
// mains build one and hand it to each service's route registration.
//
// Logger is backed by a trace-aware handler: prefer the context methods
// inside handlers so trace_id, span_id, and request_id land on each record,
// and keep the plain Info/Error for startup and shutdown messages.
type Application struct {
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	ItemCache    *cache.ItemCache
	SessionStore sessions.Store // Redis-backed session store; nil in worker process
}
