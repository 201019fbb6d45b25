package database

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm/schema"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
	columnNamer  = schema.NamingStrategy{}
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report column names so messages match the keys FindBy accepts.
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			if column := schema.ParseTagSetting(field.Tag.Get("gorm"), ";")["COLUMN"]; column != "" {
				return column
			}
			return columnNamer.ColumnName("", field.Name)
		})
	})
	return validate
}

type normalizer interface {
	Normalize()
}

// Validate trims the entity's string fields when it knows how and checks
// its validate tags. It never touches the database.
func Validate(entity any) error {
	if entity == nil {
		return invalid("entity", "must not be nil")
	}
	if rv := reflect.ValueOf(entity); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return invalid("entity", "must not be nil")
	}
	if n, ok := entity.(normalizer); ok {
		n.Normalize()
	}

	err := validatorInstance().Struct(entity)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, invalid(fe.Field(), reason(fe)))
	}
	return errors.Join(errs...)
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be empty"
	case "max":
		return fmt.Sprintf("cannot exceed %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
