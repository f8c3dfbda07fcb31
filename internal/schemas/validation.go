package schemas

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	"github.com/zaqqye/exam_backend/internal/models"
	"github.com/zaqqye/exam_backend/internal/patch"
)

type enum interface {
	IsValid() bool
}

var (
	registerOnce sync.Once
	registerErr  error
)

// fieldTypes lists every patch.Field instantiation used by a payload, so the
// validator sees the carried value instead of the wrapper.
var fieldTypes = []interface{}{
	patch.Field[string]{},
	patch.Field[int]{},
	patch.Field[bool]{},
	patch.Field[float64]{},
	patch.Field[time.Time]{},
	patch.Field[datatypes.JSONMap]{},
	patch.Field[models.UserRole]{},
	patch.Field[models.Difficulty]{},
	patch.Field[models.ExamType]{},
	patch.Field[models.ExamStatus]{},
	patch.Field[models.RegistrationStatus]{},
	patch.Field[models.SessionStatus]{},
	patch.Field[models.SubmissionStatus]{},
	patch.Field[models.ExecutionStatus]{},
	patch.Field[models.EventType]{},
}

// RegisterValidation installs the payload rules on gin's validator. Safe to
// call from every router constructor.
func RegisterValidation() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("schemas: gin validator engine is not validator/v10")
			return
		}
		registerErr = Register(v)
	})
	return registerErr
}

func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if p, ok := field.Interface().(interface{ Present() interface{} }); ok {
			return p.Present()
		}
		return nil
	}, fieldTypes...)
	return v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enum)
		return ok && e.IsValid()
	})
}
