package util

import "errors"

var (
	ErrInvalidSurveyData = errors.New("invalid survey data")
	ErrComparisonMissing = errors.New("comparison dataset not found")
)

// StorageError 存储层写入失败，Error() 保留底层错误原文
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
