package services

import (
	"errors"

	"github.com/messageflow/backend/internal/models"
)

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
