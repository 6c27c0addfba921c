// Package validation concentra o validator/v10 usado nos payloads da API.
package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperror "saborstock/internal/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Usa o nome do campo JSON nas mensagens.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// decimal.Decimal validado como número (gt=0, gte=0...).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// Struct valida s pelas tags `validate` e converte falhas em ValidationError.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return apperror.NewValidationError(err.Error())
	}
	return apperror.NewValidationError(formatFieldErrors(fieldErrs))
}

func formatFieldErrors(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s é obrigatório", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s deve ter no mínimo %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s deve ter no máximo %s", field, fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s deve ser maior que %s", field, fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s deve ser maior ou igual a %s", field, fe.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s deve ser um e-mail válido", field))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s deve ser uma URL válida", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s é inválido", field))
		}
	}
	sort.Strings(msgs)
	return "Dados inválidos: " + strings.Join(msgs, "; ") + "."
}
