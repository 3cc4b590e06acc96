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

package denvelope

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("denvelope: invalid envelope")

var validate = newValidator()

// newValidator reports field names by their JSON tag, so messages read
// like the wire form ("error.code") rather than the Go struct.
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

// Validate checks that e is well-formed beyond what the type already
// guarantees:
//
//   - the timestamp is set (positive);
//   - a failure has a non-empty code and a non-empty message.
//
// Constructors never call Validate. It is meant for envelopes received from
// elsewhere, and for call sites that want to reject sloppy failures. All
// problems found are reported together.
func Validate[T any](e Envelope[T]) error {
	var errs []error
	if e.timestamp <= 0 {
		errs = append(errs, fmt.Errorf("%w: timestamp: must be positive", ErrInvalid))
	}
	if !e.success {
		errs = append(errs, validateProblem(e.problem)...)
	}
	return errors.Join(errs...)
}

func validateProblem(p Problem) []error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []error{fmt.Errorf("%w: %v", ErrInvalid, err)}
	}
	out := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, fmt.Errorf("%w: error.%s: %s", ErrInvalid, fe.Field(), ruleMessage(fe)))
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	}
	return "is invalid"
}
