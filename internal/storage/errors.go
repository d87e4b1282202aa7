package storage

import (
	"fmt"

	apperrors "github.com/julianstephens/smartgrow/internal/errors"
)

// StorageError reports a failure of the underlying storage medium.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return apperrors.New(apperrors.KindStorage, op, &StorageError{Op: op, Key: key, Err: err})
}
