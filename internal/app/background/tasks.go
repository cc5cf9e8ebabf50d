package background

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-country-service/internal/domain"
	"github.com/LavaJover/shvark-country-service/internal/usecase"
	"go.uber.org/zap"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReporter is satisfied by grpcapi.HealthHandler.
type HealthReporter interface {
	SetServing(serving bool)
}

type BackgroundTasks struct {
	RefreshUsecase  usecase.RefreshUsecase
	RefreshInterval time.Duration
	DB              Pinger
	Health          HealthReporter
	ProbeInterval   time.Duration
	Logger          *zap.Logger

	Subscriber   domain.SubscriberPort
	RequestTopic string
	GroupID      string
}

func NewBackgroundTasks(
	refreshUC usecase.RefreshUsecase,
	refreshInterval time.Duration,
	db Pinger,
	health HealthReporter,
	logger *zap.Logger,
) *BackgroundTasks {
	return &BackgroundTasks{
		RefreshUsecase:  refreshUC,
		RefreshInterval: refreshInterval,
		DB:              db,
		Health:          health,
		ProbeInterval:   5 * time.Second,
		Logger:          logger,
	}
}

// WithRefreshRequests makes StartAll consume refresh requests from topic.
func (bt *BackgroundTasks) WithRefreshRequests(sub domain.SubscriberPort, topic, groupID string) *BackgroundTasks {
	bt.Subscriber = sub
	bt.RequestTopic = topic
	bt.GroupID = groupID
	return bt
}

// StartAll launches every task; each one stops when ctx is cancelled.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startHealthProbe(ctx)
	if bt.RefreshInterval > 0 {
		go bt.startPeriodicRefresh(ctx)
	}
	if bt.Subscriber != nil && bt.RequestTopic != "" {
		go bt.startRefreshRequests(ctx)
	}
}

func (bt *BackgroundTasks) startPeriodicRefresh(ctx context.Context) {
	ticker := time.NewTicker(bt.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bt.RefreshUsecase.Refresh(ctx); err != nil {
				bt.Logger.Warn("scheduled refresh failed", zap.Error(err))
			}
		}
	}
}

func (bt *BackgroundTasks) startRefreshRequests(ctx context.Context) {
	messages, err := bt.Subscriber.Subscribe(ctx, bt.RequestTopic, bt.GroupID)
	if err != nil {
		bt.Logger.Error("failed to subscribe to refresh requests", zap.String("topic", bt.RequestTopic), zap.Error(err))
		return
	}

	for msg := range messages {
		bt.Logger.Info("refresh requested", zap.ByteString("key", msg.Key))
		if _, err := bt.RefreshUsecase.Refresh(ctx); err != nil {
			bt.Logger.Warn("requested refresh failed", zap.Error(err))
		}
	}
}

func (bt *BackgroundTasks) startHealthProbe(ctx context.Context) {
	bt.probe(ctx)

	ticker := time.NewTicker(bt.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.probe(ctx)
		}
	}
}

func (bt *BackgroundTasks) probe(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := bt.DB.PingContext(pingCtx); err != nil {
		bt.Logger.Warn("database ping failed", zap.Error(err))
		bt.Health.SetServing(false)
		return
	}
	bt.Health.SetServing(true)
}
