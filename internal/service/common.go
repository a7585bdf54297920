package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/uptrace/bun"

	"github.com/helpify-project/messageboard/internal/database/models"
)

type baseService struct {
	DB       *bun.DB
	validate *validator.Validate
}

// findMessage reports ok=false when no row has the given id.
func (s *baseService) findMessage(ctx context.Context, db bun.IDB, id int64) (msg models.Message, ok bool, err error) {
	err = db.NewSelect().
		Model(&msg).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
		return
	}

	ok = err == nil
	return
}
