package usecase

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

type HTTPError struct {
	Status  int
	Message string

	//入力エラーの項目ごとのメッセージ
	Fields map[string]string
	//画面遷移先のヒント（失敗時のcheckoutなど）
	Redirect string

	//500の原因（ログ用）
	Err error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// DBなどの想定外エラー
func internalError(err error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "db error",
		Err:     errors.WithStack(err),
	}
}

// 入力エラー
func validationError(fields map[string]string, redirect string) error {
	return &HTTPError{
		Status:   http.StatusBadRequest,
		Message:  "validation error",
		Fields:   fields,
		Redirect: redirect,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
