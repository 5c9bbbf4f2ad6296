package biz

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"productmanagement/cmd/product-service/internal/domain"
	"productmanagement/pkg/monitoring"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewEventNotifier,
	NewCategoryUsecase,
	NewProductUsecase,
	NewSupplierUsecase,
	NewOrderUsecase,
)

// 实体名称，用于事件类型与指标标签
const (
	entityCategory = "category"
	entityProduct  = "product"
	entitySupplier = "supplier"
	entityOrder    = "order"
)

// EventNotifier 写入成功后发布变更事件，发布失败只记录日志
type EventNotifier struct {
	publisher domain.EventPublisher
	log       *log.Helper
}

// NewEventNotifier 创建事件通知器
func NewEventNotifier(publisher domain.EventPublisher, logger log.Logger) *EventNotifier {
	return &EventNotifier{
		publisher: publisher,
		log:       log.NewHelper(log.With(logger, "module", "biz/events")),
	}
}

// recordMutation 记录一次写操作的结果，成功时发布事件
func (n *EventNotifier) recordMutation(ctx context.Context, entity string, action domain.EventAction, id int, payload interface{}, err error) {
	monitoring.CatalogMutationsTotal.WithLabelValues(entity, string(action), monitoring.Status(err)).Inc()
	if err != nil || n == nil || n.publisher == nil {
		return
	}

	event := domain.CatalogEvent{
		Entity:    entity,
		Action:    action,
		EntityID:  id,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
	if perr := n.publisher.Publish(ctx, event); perr != nil {
		n.log.WithContext(ctx).Warnf("publish %s for id %d: %v", event.Type(), id, perr)
	}
}
