package data

import (
	"context"
	"strconv"

	"github.com/go-kratos/kratos/v2/log"

	"productmanagement/cmd/product-service/internal/conf"
	"productmanagement/cmd/product-service/internal/domain"
	"productmanagement/pkg/events"
	"productmanagement/pkg/monitoring"
)

// catalogPublisher 将目录变更事件转换为通用事件并发布
type catalogPublisher struct {
	pub events.Publisher
	log *log.Helper
}

// NewEventPublisher 按配置创建事件发布器，未启用时事件被丢弃
func NewEventPublisher(c *conf.Config, logger log.Logger) (domain.EventPublisher, func(), error) {
	helper := log.NewHelper(log.With(logger, "module", "data/events"))

	var pub events.Publisher = events.NoopPublisher{}
	if c.Events.Enabled {
		cfg := events.DefaultPublisherConfig()
		cfg.Brokers = c.Events.Brokers
		cfg.Topic = c.Events.Topic
		kp, err := events.NewKafkaPublisher(cfg)
		if err != nil {
			return nil, nil, err
		}
		pub = kp
		helper.Infof("publishing catalog events to %v topic=%s", cfg.Brokers, cfg.Topic)
	}

	p := newCatalogPublisher(pub, logger)
	cleanup := func() {
		if err := p.Close(); err != nil {
			helper.Errorf("close event publisher: %v", err)
		}
	}
	return p, cleanup, nil
}

func newCatalogPublisher(pub events.Publisher, logger log.Logger) *catalogPublisher {
	return &catalogPublisher{
		pub: pub,
		log: log.NewHelper(log.With(logger, "module", "data/events")),
	}
}

func (p *catalogPublisher) Publish(ctx context.Context, e domain.CatalogEvent) error {
	event, err := events.NewEvent(ctx, e.Type(), strconv.Itoa(e.EntityID), e)
	if err != nil {
		return err
	}
	event.Timestamp = e.Timestamp
	event.Metadata = map[string]string{
		"entity": e.Entity,
		"action": string(e.Action),
	}

	err = p.pub.Publish(ctx, event)
	monitoring.EventsPublishedTotal.WithLabelValues(e.Type(), monitoring.Status(err)).Inc()
	return err
}

func (p *catalogPublisher) Close() error {
	return p.pub.Close()
}
