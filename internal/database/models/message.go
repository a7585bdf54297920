package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

var _ bun.BeforeAppendModelHook = (*Message)(nil)

type Message struct {
	bun.BaseModel `bun:"table:messages,alias:m"`

	ID        int64     `bun:",pk,autoincrement"`
	Body      string    `bun:",notnull"`
	Username  string    `bun:",notnull"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// BeforeAppendModel stamps created_at/updated_at on insert and refreshes
// updated_at on every update.
func (m *Message) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	// Both SQLite and PostgreSQL keep microseconds.
	now := time.Now().UTC().Truncate(time.Microsecond)

	switch query.(type) {
	case *bun.InsertQuery:
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now
		}
		m.UpdatedAt = m.CreatedAt
	case *bun.UpdateQuery:
		m.UpdatedAt = now
		// Clock skew must not break updated_at >= created_at.
		if m.UpdatedAt.Before(m.CreatedAt) {
			m.UpdatedAt = m.CreatedAt
		}
	}

	return nil
}
