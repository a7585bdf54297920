package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/bun"

	"github.com/helpify-project/messageboard/internal/apierrors"
	"github.com/helpify-project/messageboard/internal/database/models"
)

func NewMessageService(db *bun.DB) *MessageService {
	return &MessageService{
		baseService: baseService{
			DB:       db,
			validate: validator.New(),
		},
	}
}

type MessageService struct {
	baseService
}

// List returns every message, oldest first. Rows sharing a created_at are
// ordered by id.
func (s *MessageService) List(ctx context.Context) (messages []Message, err error) {
	messages = make([]Message, 0)

	var dbMessages []models.Message
	err = s.DB.NewSelect().
		Model(&dbMessages).
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		err = fmt.Errorf("failed to list messages: %w", err)
		return
	}

	for _, msg := range dbMessages {
		messages = append(messages, MessageFromModel(msg))
	}

	return
}

func (s *MessageService) Get(ctx context.Context, id int64) (msg Message, err error) {
	var dbMsg models.Message
	var ok bool
	if dbMsg, ok, err = s.findMessage(ctx, s.DB, id); err != nil {
		err = fmt.Errorf("failed to load message %d: %w", id, err)
		return
	} else if !ok {
		err = fmt.Errorf("message %d: %w", id, apierrors.ErrNotFound)
		return
	}

	msg.FromModel(dbMsg)
	return
}

func (s *MessageService) Create(ctx context.Context, input CreateMessageRequest) (msg Message, err error) {
	if err = s.validate.StructCtx(ctx, input); err != nil {
		err = fmt.Errorf("%w: %s", apierrors.ErrValidation, err.Error())
		return
	}

	dbMsg := models.Message{
		Body:     input.Body,
		Username: input.Username,
	}

	_, err = s.DB.NewInsert().
		Model(&dbMsg).
		Exec(ctx)
	if err != nil {
		err = fmt.Errorf("failed to insert message: %w", err)
		return
	}

	msg.FromModel(dbMsg)
	return
}

// Update replaces the body of message id. An empty body is a no-op and the
// current row is returned as is.
func (s *MessageService) Update(ctx context.Context, id int64, input UpdateMessageRequest) (msg Message, err error) {
	var dbMsg models.Message

	err = s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) (err error) {
		var ok bool
		if dbMsg, ok, err = s.findMessage(ctx, tx, id); err != nil {
			return
		} else if !ok {
			return fmt.Errorf("message %d: %w", id, apierrors.ErrNotFound)
		}

		if input.Body == "" {
			return
		}

		dbMsg.Body = input.Body
		_, err = tx.NewUpdate().
			Model(&dbMsg).
			Column("body", "updated_at").
			WherePK().
			Exec(ctx)

		return
	})
	if err != nil {
		err = fmt.Errorf("failed to update message %d: %w", id, err)
		return
	}

	msg.FromModel(dbMsg)
	return
}

// Delete removes message id permanently.
func (s *MessageService) Delete(ctx context.Context, id int64) (err error) {
	var res sql.Result
	res, err = s.DB.NewDelete().
		Model((*models.Message)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete message %d: %w", id, err)
	}

	var affected int64
	if affected, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", id, err)
	} else if affected == 0 {
		return fmt.Errorf("message %d: %w", id, apierrors.ErrNotFound)
	}

	return
}
