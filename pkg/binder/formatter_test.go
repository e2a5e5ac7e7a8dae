package binder

import (
	"reflect"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/stretchr/testify/assert"
)

type fakeFieldError struct {
	tag   string
	param string
	kind  reflect.Kind
}

func (e *fakeFieldError) Error() string           { return "fake field error" }
func (e *fakeFieldError) Tag() string             { return e.tag }
func (e *fakeFieldError) ActualTag() string       { return e.tag }
func (e *fakeFieldError) Namespace() string       { return "" }
func (e *fakeFieldError) StructNamespace() string { return "" }
func (e *fakeFieldError) Field() string           { return "letter_date" }
func (e *fakeFieldError) StructField() string     { return "" }
func (e *fakeFieldError) Value() interface{}      { return "" }
func (e *fakeFieldError) Param() string           { return e.param }
func (e *fakeFieldError) Kind() reflect.Kind {
	if e.kind == 0 {
		return reflect.String
	}
	return e.kind
}
func (e *fakeFieldError) Type() reflect.Type               { return reflect.TypeOf("") }
func (e *fakeFieldError) Translate(_ ut.Translator) string { return "" }

func TestFormatValidationError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tag   string
		param string
		kind  reflect.Kind
		msg   string
	}{
		{"date", "", 0, `"letter_date" should be in the format of YYYY-MM-DD`},
		{"email", "", 0, `"letter_date" is not a valid email`},
		{"url", "", 0, `"letter_date" is not a valid URL`},
		{"slug", "", 0, `"letter_date" may only contain lowercase letters, numbers and hyphens`},
		{"max", "255", reflect.String, `"letter_date" length must be less than or equal to 255 characters`},
		{"max", "1", reflect.String, `"letter_date" length must be less than or equal to 1 character`},
		{"min", "2", reflect.Slice, `"letter_date" length must be greater than or equal to 2 elements`},
		{"max", "500", reflect.Int, `"letter_date" must be less than or equal to 500`},
		{"min", "0", reflect.Float64, `"letter_date" must be greater than or equal to 0`},
		{"gte", "1660", reflect.Int, `"letter_date" must be greater than or equal to 1660`},
		{"lte", "1669", reflect.Int, `"letter_date" must be less than or equal to 1669`},
		{"ne", "", 0, `"letter_date" can't be ""`},
		{"oneof", "draft published", 0, `"letter_date" must be one of the following: "draft", "published"`},
		{"required", "", 0, `"letter_date" is required`},
		{"uuid", "", 0, `"letter_date" failed the "uuid" check`},
	}

	for _, tt := range cases {
		err := fakeFieldError{tag: tt.tag, param: tt.param, kind: tt.kind}
		assert.Equal(t, tt.msg, formatValidationError(&err), tt.tag)
	}
}
