package domain

import (
	"context"
	"time"
)

// EventAction 变更动作
type EventAction string

const (
	ActionCreated EventAction = "created"
	ActionUpdated EventAction = "updated"
	ActionDeleted EventAction = "deleted"
)

// CatalogEvent 目录变更事件
type CatalogEvent struct {
	Entity    string      `json:"entity"`
	Action    EventAction `json:"action"`
	EntityID  int         `json:"entity_id"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Type 事件类型，例如 product.catalog.category.created
func (e CatalogEvent) Type() string {
	return "product.catalog." + e.Entity + "." + string(e.Action)
}

// EventPublisher 事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, event CatalogEvent) error
	Close() error
}
