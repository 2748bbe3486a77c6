// Package apperror はビジネスルール違反を表すエラー型を定義します。
package apperror

import "errors"

// Kind はエラーの種別です。HTTP層はこの種別だけを見てステータスを決めます。
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindUnauthorized
	KindBadRequest
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindBadRequest:
		return "bad_request"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error は種別・安定したコード・メッセージを持つエラーです。
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error // 原因 (任意)
}

// New は新しいErrorを作成します。
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is はコードが一致すれば同じエラーとみなします。
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Wrap は原因を付与したコピーを返します。元の定義済みエラーは変更しません。
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Err: err}
}

// Internal は想定外の失敗をKindInternalとしてラップします。
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: message, Err: err}
}

// KindOf はerrに含まれるErrorの種別を返します。Errorでなければ KindInternal です。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
