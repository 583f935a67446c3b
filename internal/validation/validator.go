// Package validation checks films and users before any mutation happens.
// It wraps a go-playground/validator instance with the custom rules the
// catalogue needs and reports every violation of one call in a single
// VALIDATION_ERROR.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"filmorate/internal/apperrors"
	"filmorate/internal/models"
)

// EarliestReleaseDate 是第一次电影公映的日期，早于此日期的上映日期不合法。
var EarliestReleaseDate = models.NewDate(1895, time.December, 28)

// FieldError 描述单个字段的校验失败。
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock 替换获取当前时间的函数，测试时用来固定 "今天"。
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// Validator 对模型做字段级和结构级校验。并发安全。
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New 创建一个注册了全部自定义规则的 Validator。
func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	// 字段名使用 json 标签，错误信息和请求体保持一致
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(validate, "notblank", isNotBlank)
	mustRegister(validate, "emailshape", isEmailShape)
	mustRegister(validate, "nowhitespace", hasNoWhitespace)
	validate.RegisterStructValidation(v.filmDates, models.Film{})
	validate.RegisterStructValidation(v.userDates, models.User{})

	v.validate = validate
	return v
}

var (
	defaultValidator *Validator
	defaultOnce      sync.Once
)

// Default returns the process-wide Validator that uses the wall clock.
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// ValidateFilm 校验电影，全部通过时返回 nil。
func (v *Validator) ValidateFilm(film *models.Film) error {
	return v.check(film)
}

// ValidateUser 校验用户。名字为空不算错误，由 NormalizeUser 处理。
func (v *Validator) ValidateUser(user *models.User) error {
	return v.check(user)
}

// NormalizeUser validates the user and then substitutes the login for a blank name.
func (v *Validator) NormalizeUser(user *models.User) error {
	if err := v.ValidateUser(user); err != nil {
		return err
	}
	user.Normalize()
	return nil
}

func (v *Validator) check(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperrors.Internal(err, "validation failed unexpectedly")
	}

	fields := make([]FieldError, 0, len(validationErrs))
	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msg := translateError(fe)
		fields = append(fields, FieldError{Field: fe.Field(), Tag: fe.Tag(), Message: msg})
		messages = append(messages, msg)
	}
	return apperrors.Validation(strings.Join(messages, "; "), fields)
}

// FieldErrors 从校验错误中取出字段列表，不是校验错误时返回 nil。
func FieldErrors(err error) []FieldError {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Kind != apperrors.KindValidation {
		return nil
	}
	fields, _ := appErr.Details.([]FieldError)
	return fields
}

func (v *Validator) filmDates(sl validator.StructLevel) {
	film := sl.Current().Interface().(models.Film)
	switch {
	case film.ReleaseDate.IsZero():
		sl.ReportError(film.ReleaseDate, "releaseDate", "ReleaseDate", "required", "")
	case film.ReleaseDate.Before(EarliestReleaseDate):
		sl.ReportError(film.ReleaseDate, "releaseDate", "ReleaseDate", "releasedate", EarliestReleaseDate.String())
	}
}

func (v *Validator) userDates(sl validator.StructLevel) {
	user := sl.Current().Interface().(models.User)
	if user.Birthday.IsZero() {
		return
	}
	if user.Birthday.After(models.DateOf(v.now())) {
		sl.ReportError(user.Birthday, "birthday", "Birthday", "notfuture", "")
	}
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isEmailShape 只检查形状：恰好一个 '@'，两侧都非空，不含空白。
func isEmailShape(fl validator.FieldLevel) bool {
	email := fl.Field().String()
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 || strings.Count(email, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(email, "@")
	return local != "" && domain != ""
}

func hasNoWhitespace(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
}

var errorMessageTemplates = map[string]string{
	"required":     "%s is required",
	"notblank":     "%s must not be blank",
	"emailshape":   "%s must contain a single '@' with non-empty local and domain parts",
	"nowhitespace": "%s must not contain whitespace",
	"notfuture":    "%s must not be in the future",
}

var errorMessageWithParam = map[string]string{
	"max":         "%s must be at most %s characters",
	"gt":          "%s must be greater than %s",
	"releasedate": "%s must not be before %s",
}

func translateError(fe validator.FieldError) string {
	if template, ok := errorMessageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field())
	}
	if template, ok := errorMessageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(template, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
