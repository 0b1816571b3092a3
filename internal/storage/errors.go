package storage

import "errors"

var (
	// ErrNotFound 术语表或术语不存在
	ErrNotFound = errors.New("not found")
	// ErrInvalidTerm 术语缺少必要字段
	ErrInvalidTerm = errors.New("invalid term")
)
