package delivery_http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

const maxFormBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type LoginForm struct {
	Username   string `form:"username" json:"username" validate:"required"`
	Password   string `form:"password" json:"-" validate:"required"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

type RegistrationForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=64"`
	Email     string `form:"email" json:"email" validate:"required,email,max=120"`
	Password  string `form:"password" json:"-" validate:"required"`
	Password2 string `form:"password2" json:"-" validate:"required,eqfield=Password"`
}

type EditProfileForm struct {
	Username string `form:"username" json:"username" validate:"required,max=64"`
	AboutMe  string `form:"about_me" json:"about_me" validate:"max=140"`
}

type PostForm struct {
	Post string `form:"post" json:"post" validate:"required,max=140"`
}

type ResetPasswordRequestForm struct {
	Email string `form:"email" json:"email" validate:"required,email"`
}

type ResetPasswordForm struct {
	Password  string `form:"password" json:"-" validate:"required"`
	Password2 string `form:"password2" json:"-" validate:"required,eqfield=Password"`
}

// bind fills dst from a urlencoded form or a JSON object, keyed by the
// struct's form tags.
func bind(r *http.Request, dst any) error {
	input := make(map[string]any)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes)).Decode(&input); err != nil {
			return fmt.Errorf("decode json body: %w", err)
		}
	} else {
		r.Body = http.MaxBytesReader(nil, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("parse form: %w", err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				input[key] = values[0]
			}
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "form",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.DecodeHookFuncKind(checkboxHook),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("decode form: %w", err)
	}
	return nil
}

// checkboxHook accepts the values browsers and form libraries send for a
// ticked checkbox.
func checkboxHook(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
	if from != reflect.String || to != reflect.Bool {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(data.(string))) {
	case "on", "y", "yes", "true", "1":
		return true, nil
	default:
		return false, nil
	}
}

// validateForm returns field name to message, or nil when form is valid.
func validateForm(form any) map[string]string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": "Invalid input."}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "eqfield":
		return fmt.Sprintf("Field must be equal to %s.", strings.ToLower(fe.Param()))
	default:
		return "Invalid value."
	}
}
