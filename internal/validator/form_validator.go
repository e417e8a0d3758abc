package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	playground "github.com/go-playground/validator/v10"
)

// 受け取り日として受け付ける形式
var orderDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// フォーム入力の検証（structのvalidateタグを使う）
type FormValidator struct {
	v *playground.Validate
}

func NewFormValidator() *FormValidator {
	v := playground.New(playground.WithRequiredStructEnabled())

	// エラーのキーはformタグ名にする
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// 日付として読めるか
	if err := v.RegisterValidation("orderdate", func(fl playground.FieldLevel) bool {
		_, err := ParseOrderDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}

	return &FormValidator{v: v}
}

// ValidateForm は項目名→メッセージを返す。問題なければnil
func (f *FormValidator) ValidateForm(form interface{}) map[string]string {
	err := f.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "orderdate":
		return "enter a valid date"
	default:
		return "invalid value"
	}
}

// ParseOrderDate は受け取り日をUTCで解釈する
func ParseOrderDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range orderDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf("invalid order date: %q", s)
}
