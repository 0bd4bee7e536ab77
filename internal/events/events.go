// Package events はドメインイベントの定義と、メッセージブローカーへの発行を提供する。
// イベント発行はベストエフォートで、失敗してもAPIの応答には影響させない。
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// イベント種別。RabbitMQのルーティングキーとしてそのまま使う。
const (
	TypeUserCreated    = "user.created"
	TypeUserUpdated    = "user.updated"
	TypeProductCreated = "product.created"
)

// Event はブローカーに発行するイベントのエンベロープ。
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// New はIDと発生時刻を付与したイベントを生成する。
func New(eventType, subject string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher はイベント発行のインターフェース。
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// NopPublisher はブローカー未設定時に使う何もしないPublisher。
type NopPublisher struct{}

// Publish は何もせずnilを返す。
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Emit はイベントを発行し、失敗をログに記録する。エラーは呼び出し元に返さない。
func Emit(ctx context.Context, p Publisher, ev Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		slog.Warn("failed to publish event",
			slog.String("event_type", ev.Type),
			slog.String("event_id", ev.ID),
			slog.String("subject", ev.Subject),
			slog.String("error", err.Error()),
		)
	}
}

// PublishRecorder はイベント発行結果を記録するインターフェース。
type PublishRecorder interface {
	RecordEventPublished(eventType, result string)
}

// instrumented は発行結果をPublishRecorderに記録するPublisherのラッパー。
type instrumented struct {
	next     Publisher
	recorder PublishRecorder
}

// WithRecorder は発行結果をrecorderに記録するPublisherを返す。
func WithRecorder(next Publisher, recorder PublishRecorder) Publisher {
	if recorder == nil {
		return next
	}
	return &instrumented{next: next, recorder: recorder}
}

func (p *instrumented) Publish(ctx context.Context, ev Event) error {
	err := p.next.Publish(ctx, ev)
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.recorder.RecordEventPublished(ev.Type, result)
	return err
}
