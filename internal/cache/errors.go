package cache

import (
	"errors"

	"sensorhub/internal/repository"
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
