package binder

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
)

var unknownFieldsRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// Binder implements echo.Binder. Params are decoded, cleaned up with mold,
// given their defaults and then validated.
type Binder struct {
	queryDecoder *schema.Decoder
	formDecoder  *schema.Decoder
	conform      *mold.Transformer
	validate     *validator.Validate
}

func New() (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	formDecoder := schema.NewDecoder()
	formDecoder.SetAliasTag("form")
	formDecoder.IgnoreUnknownKeys(true)

	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("date", dateValidator); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validate.RegisterValidation("slug", slugValidator); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Binder{
		queryDecoder: queryDecoder,
		formDecoder:  formDecoder,
		conform:      modifiers.New(),
		validate:     validate,
	}, nil
}

func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()

	if req.ContentLength > 0 {
		if err := b.bindBody(i, c); err != nil {
			return err
		}
	} else if req.Method == http.MethodGet || req.Method == http.MethodDelete || req.Method == http.MethodHead {
		if err := b.decodeValues(i, c.QueryParams(), b.queryDecoder); err != nil {
			return err
		}
	} else {
		return errcodes.EmptyRequestBody()
	}

	if err := b.conform.Struct(req.Context(), i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return errcodes.ValidationError(formatValidationError(errs[0]))
		}
		return errors.WithStack(err)
	}
	return nil
}

func (b *Binder) bindBody(i interface{}, c echo.Context) error {
	req := c.Request()
	ctype := req.Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
		defer req.Body.Close()
		dec := json.NewDecoder(req.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(i); err != nil {
			if matches := unknownFieldsRE.FindStringSubmatch(err.Error()); len(matches) > 1 {
				return errcodes.UnknownParameter(matches[1])
			}
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				return errcodes.ValidationTypeError(formatUnmarshalTypeError(typeErr))
			}
			logger.FromEchoContext(c).Err(err).Warn("unknown json decode error")
			return errcodes.MalformedPayload()
		}
		return nil
	case strings.HasPrefix(ctype, echo.MIMEApplicationForm):
		params, err := c.FormParams()
		if err != nil {
			return errcodes.MalformedPayload()
		}
		return b.decodeValues(i, params, b.formDecoder)
	default:
		return errcodes.UnsupportedMediaType()
	}
}

func (b *Binder) decodeValues(i interface{}, params url.Values, decoder *schema.Decoder) error {
	err := decoder.Decode(i, params)
	if err == nil {
		return nil
	}

	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return errors.WithStack(err)
	}
	for _, err := range multi {
		var conversionErr schema.ConversionError
		if errors.As(err, &conversionErr) {
			return errcodes.ValidationTypeError(formatSchemaConversionError(conversionErr))
		}
		var unknownErr schema.UnknownKeyError
		if errors.As(err, &unknownErr) {
			return errcodes.UnknownParameter(unknownErr.Key)
		}
		return errors.WithStack(err)
	}
	return nil
}
