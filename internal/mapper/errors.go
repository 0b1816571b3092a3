package mapper

import "fmt"

// ErrorKind 映射错误类别
type ErrorKind string

const (
	KindInvalidState ErrorKind = "invalid_state"
	KindMapping      ErrorKind = "mapping"
	KindTemporal     ErrorKind = "temporal"
	KindFormat       ErrorKind = "format"
)

// Error 映射错误，所有类别都属于映射错误族
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

var (
	// ErrMapping 匹配任意类别的映射错误
	ErrMapping = &Error{Kind: KindMapping, Msg: "mapping error"}
	// ErrInvalidState 未获取术语表快照
	ErrInvalidState = &Error{Kind: KindInvalidState, Msg: "invalid state"}
	// ErrTemporal 时间范围校验失败
	ErrTemporal = &Error{Kind: KindTemporal, Msg: "temporal error"}
	// ErrFormat 格式 URI 校验失败
	ErrFormat = &Error{Kind: KindFormat, Msg: "format error"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 支持 errors.Is 按类别匹配
func (e *Error) Is(target error) bool {
	switch target {
	case ErrMapping:
		return true
	case ErrInvalidState, ErrTemporal, ErrFormat:
		return e.Kind == target.(*Error).Kind
	}
	return false
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}
