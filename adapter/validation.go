/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package adapter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/apis"
	"dirpx.dev/denvelope/code"
	"github.com/go-playground/validator/v10"
)

const msgValidation = "validation failed"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// Validate runs struct validation on v. It returns nil or a
// VALIDATION_ERROR Problem whose details list one apis.Violation per
// failed field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if p, ok := FromValidation(err); ok {
		return p
	}
	return denvelope.NewProblem(code.Validation, msgValidation)
}

// FromValidation converts validator errors into a VALIDATION_ERROR
// Problem. It reports false for any other error.
func FromValidation(err error) (denvelope.Problem, bool) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return denvelope.Problem{}, false
	}
	violations := make([]apis.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, apis.Violation{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: violationMessage(fe),
		})
	}
	return denvelope.NewProblem(code.Validation, msgValidation, denvelope.WithDetails(violations)), true
}

// fieldPath drops the top-level struct name from the namespace:
// "CreateItem.tags[0]" becomes "tags[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
