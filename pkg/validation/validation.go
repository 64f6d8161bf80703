// Package validation istek DTO'larını go-playground/validator ile doğrular ve
// hataları alan bazlı mesajlara çevirir.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kabul edilen tarih-saat biçimleri (sırayla denenir).
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04", // HTML datetime-local
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator paylaşılan validator örneğini döndürür.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
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
		_ = validate.RegisterValidation("datetime_any", func(fl validator.FieldLevel) bool {
			_, err := ParseDateTime(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// ParseDateTime desteklenen biçimlerden biriyle tarih-saat ayrıştırır.
// Saat dilimi içermeyen değerler UTC kabul edilir.
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("boş tarih")
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("tarih ayrıştırılamadı: %q", value)
}

// Struct dto'yu doğrular. Hata yoksa nil, varsa alan -> mesaj eşlemesi döndürür.
func Struct(dto interface{}) map[string]string {
	err := Validator().Struct(dto)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe)
		if _, exists := fields[key]; exists {
			continue
		}
		fields[key] = Message(fe)
	}
	return fields
}

// fieldKey "emails[1]" gibi namespace'leri "emails.1" biçimine çevirir.
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.NewReplacer("[", ".", "]", "").Replace(ns)
	return ns
}

func humanize(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// Message tek bir alan hatası için okunabilir mesaj üretir.
func Message(fe validator.FieldError) string {
	field := humanize(fieldKey(fe))
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s field must not have more than %s items.", field, fe.Param())
		}
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("The %s field must have at least %s items.", field, fe.Param())
		}
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "datetime_any":
		return fmt.Sprintf("The %s field must be a valid date.", field)
	case "eqfield":
		return fmt.Sprintf("The %s field must match %s.", field, humanize(fe.Param()))
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
