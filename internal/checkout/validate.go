package checkout

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/postal"
	"github.com/go-playground/validator/v10"
)

var (
	stateRe   = regexp.MustCompile(`^[A-Z]{2}$`)
	cardExpRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvRe     = regexp.MustCompile(`^\d{3,4}$`)
)

// MinCardDigits is the shortest card number accepted.
const MinCardDigits = 12

// newValidator builds a validator that knows the Brazilian document and
// address formats and reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		n := len(postal.Sanitize(fl.Field().String()))
		return n == 10 || n == 11
	})
	v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return ValidCPF(fl.Field().String())
	})
	v.RegisterValidation("cep", func(fl validator.FieldLevel) bool {
		return len(postal.Sanitize(fl.Field().String())) == postal.CodeLength
	})
	v.RegisterValidation("uf", func(fl validator.FieldLevel) bool {
		return stateRe.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(validatePayment, Payment{})
	return v
}

// validatePayment requires card details only for credit card payments.
func validatePayment(sl validator.StructLevel) {
	p := sl.Current().Interface().(Payment)
	if p.Method != domain.PaymentCredit {
		return
	}
	if p.CardName == "" {
		sl.ReportError(p.CardName, "cardName", "CardName", "required", "")
	}
	if len(postal.Sanitize(p.CardNumber)) < MinCardDigits {
		sl.ReportError(p.CardNumber, "cardNumber", "CardNumber", "cardnumber", "")
	}
	if !cardExpRe.MatchString(p.CardExp) {
		sl.ReportError(p.CardExp, "cardExp", "CardExp", "cardexp", "")
	}
	if !cvvRe.MatchString(p.CardCVV) {
		sl.ReportError(p.CardCVV, "cardCvv", "CardCVV", "cvv", "")
	}
}

// ValidCPF checks the length and both check digits of a CPF. Punctuation is
// ignored. Numbers made of one repeated digit are rejected.
func ValidCPF(s string) bool {
	cpf := postal.Sanitize(s)
	if len(cpf) != 11 {
		return false
	}
	if strings.Count(cpf, cpf[:1]) == len(cpf) {
		return false
	}

	digit := func(base string, factor int) byte {
		total := 0
		for i := 0; i < len(base); i++ {
			total += int(base[i]-'0') * (factor - i)
		}
		rest := (total * 10) % 11
		if rest == 10 {
			rest = 0
		}
		return byte('0' + rest)
	}

	return digit(cpf[:9], 10) == cpf[9] && digit(cpf[:10], 11) == cpf[10]
}

// toValidationError converts validator output into field messages.
func toValidationError(op string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Internal(err, op, "failed to validate checkout details")
	}

	var out error
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		if out == nil {
			out = domain.NewValidationError(op, field, fieldMessage(fe))
			continue
		}
		out = domain.AddFieldError(out, field, fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must have 10 or 11 digits"
	case "cpf":
		return "is not a valid CPF"
	case "cep":
		return "must have 8 digits"
	case "uf":
		return "must be a two-letter state code"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "cardnumber":
		return fmt.Sprintf("must have at least %d digits", MinCardDigits)
	case "cardexp":
		return "must be in MM/YY format"
	case "cvv":
		return "must have 3 or 4 digits"
	default:
		return "is invalid"
	}
}
