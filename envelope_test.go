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
	"reflect"
	"strconv"
	"sync"
	"testing"

	"dirpx.dev/denvelope/code"
)

func TestSuccess_Predicates(t *testing.T) {
	values := []any{42, "", nil, []int{}, map[string]any{"a": 1}, struct{}{}}
	for _, v := range values {
		e := Success(v)
		if !IsSuccess(e) || IsFailure(e) {
			t.Fatalf("Success(%v): IsSuccess=%v IsFailure=%v", v, IsSuccess(e), IsFailure(e))
		}
		if !e.IsSuccess() || e.IsFailure() {
			t.Fatalf("Success(%v): method predicates disagree", v)
		}
	}
}

func TestFailure_Predicates(t *testing.T) {
	cases := []struct {
		c   code.Code
		msg string
		d   any
	}{
		{"E1", "boom", nil},
		{code.NotFound, "Resource missing", map[string]any{"id": "42"}},
		{"", "", nil}, // permissive: constructors do not validate
	}
	for _, tc := range cases {
		e := Failure[int](tc.c, tc.msg, WithDetails(tc.d))
		if !IsFailure(e) || IsSuccess(e) {
			t.Fatalf("Failure(%q): IsSuccess=%v IsFailure=%v", tc.c, IsSuccess(e), IsFailure(e))
		}
	}
}

func TestZeroEnvelope_IsExhaustive(t *testing.T) {
	var e Envelope[string]
	if e.IsSuccess() == e.IsFailure() {
		t.Fatal("exactly one predicate must hold for the zero envelope")
	}
	if _, ok := e.Data(); ok {
		t.Fatal("zero envelope must not expose data")
	}
	if _, ok := e.Problem(); !ok {
		t.Fatal("zero envelope reads as a failure")
	}
}

func TestSuccess_DataIdentity(t *testing.T) {
	type user struct{ Name string }
	u := &user{Name: "ada"}
	e := Success(u)
	got, ok := e.Data()
	if !ok {
		t.Fatal("Data() must report success")
	}
	if got != u {
		t.Fatal("pointer payload must keep its identity")
	}
	if _, ok := e.Problem(); ok {
		t.Fatal("success must not expose a problem")
	}
}

func TestFailure_Record(t *testing.T) {
	e := Failure[int]("E1", "boom")
	p, ok := e.Problem()
	if !ok {
		t.Fatal("Problem() must report failure")
	}
	if p.Code != "E1" || p.Message != "boom" {
		t.Fatalf("got %q/%q", p.Code, p.Message)
	}
	if p.Details != nil {
		t.Fatalf("details must be nil when omitted, got %#v", p.Details)
	}
	if v, ok := e.Data(); ok || v != 0 {
		t.Fatalf("failure must not expose data, got %v/%v", v, ok)
	}
}

func TestFailure_DetailsDeepEqual(t *testing.T) {
	e := Failure[int]("E1", "boom", WithDetails(map[string]any{"retryable": true}))
	p, _ := e.Problem()
	if !reflect.DeepEqual(p.Details, map[string]any{"retryable": true}) {
		t.Fatalf("details = %#v", p.Details)
	}
}

func TestFailure_WithDetail_CopyOnWrite(t *testing.T) {
	base := NewProblem(code.Invalid, "bad").WithDetail("k1", 1)
	next := base.WithDetail("k2", 2)

	if len(base.Details.(map[string]any)) != 1 {
		t.Fatal("original mutated")
	}
	if len(next.Details.(map[string]any)) != 2 {
		t.Fatal("details size mismatch")
	}

	e := Failure[int](code.Invalid, "bad", WithDetail("a", 1), WithDetail("b", 2))
	p, _ := e.Problem()
	if !reflect.DeepEqual(p.Details, map[string]any{"a": 1, "b": 2}) {
		t.Fatalf("details = %#v", p.Details)
	}
}

func TestWithDetail_ReplacesNonMapDetails(t *testing.T) {
	p := NewProblem("E1", "x", WithDetails("text"), WithDetail("k", "v"))
	if !reflect.DeepEqual(p.Details, map[string]any{"k": "v"}) {
		t.Fatalf("details = %#v", p.Details)
	}
}

func TestMatchAndFold(t *testing.T) {
	var hits []string
	Success(1).Match(
		func(int) { hits = append(hits, "ok") },
		func(Problem) { hits = append(hits, "ko") },
	)
	Failure[int]("E1", "boom").Match(
		func(int) { hits = append(hits, "ok") },
		func(Problem) { hits = append(hits, "ko") },
	)
	if !reflect.DeepEqual(hits, []string{"ok", "ko"}) {
		t.Fatalf("hits = %v", hits)
	}

	// Nil callbacks are skipped.
	Success(1).Match(nil, nil)

	render := func(e Envelope[int]) string {
		return Fold(e,
			func(v int) string { return strconv.Itoa(v) },
			func(p Problem) string { return string(p.Code) },
		)
	}
	if got := render(Success(42)); got != "42" {
		t.Fatalf("Fold(success) = %q", got)
	}
	if got := render(Failure[int](code.NotFound, "x")); got != "NOT_FOUND" {
		t.Fatalf("Fold(failure) = %q", got)
	}
}

func TestMap(t *testing.T) {
	ok := Success(21)
	doubled := Map(ok, func(v int) string { return strconv.Itoa(v * 2) })
	if v, _ := doubled.Data(); v != "42" {
		t.Fatalf("Map(success) = %q", v)
	}
	if doubled.Timestamp() != ok.Timestamp() {
		t.Fatal("Map must preserve the timestamp")
	}

	called := false
	ko := Failure[int](code.Conflict, "taken")
	mapped := Map(ko, func(v int) string { called = true; return "" })
	if called {
		t.Fatal("Map must not call f on failure")
	}
	p, isFail := mapped.Problem()
	if !isFail || p.Code != code.Conflict {
		t.Fatalf("Map(failure) = %+v", p)
	}
}

func TestForward(t *testing.T) {
	ko := Failure[int](code.Unavailable, "db down")
	fwd, ok := Forward[string](ko)
	if !ok {
		t.Fatal("Forward(failure) must succeed")
	}
	p, _ := fwd.Problem()
	if p.Code != code.Unavailable || fwd.Timestamp() != ko.Timestamp() {
		t.Fatalf("Forward lost data: %+v", p)
	}

	zero, ok := Forward[string](Success(1))
	if ok {
		t.Fatal("Forward(success) must report false")
	}
	if zero.IsSuccess() || zero.Timestamp() != 0 {
		t.Fatalf("Forward(success) must return the zero envelope, got %+v", zero)
	}
	if err := Validate(zero); err == nil {
		t.Fatal("the zero envelope from Forward(success) must not validate")
	}
}

func TestMapProblem(t *testing.T) {
	ko := Failure[int](code.Internal, "boom", WithDetail("stack", "..."))
	stripped := ko.MapProblem(func(p Problem) Problem { return p.WithDetails(nil) })
	p, _ := stripped.Problem()
	if p.Details != nil || p.Message != "boom" {
		t.Fatalf("MapProblem = %+v", p)
	}
	if stripped.Timestamp() != ko.Timestamp() {
		t.Fatal("MapProblem must preserve the timestamp")
	}
	if orig, _ := ko.Problem(); orig.Details == nil {
		t.Fatal("MapProblem must not touch the receiver")
	}

	ok := Success(1)
	if ok.MapProblem(func(Problem) Problem { t.Fatal("called on success"); return Problem{} }) != ok {
		t.Fatal("MapProblem(success) must return e unchanged")
	}
}

func TestAny(t *testing.T) {
	fixedClock(t, 1700000000000)
	for _, e := range []interface {
		MarshalJSON() ([]byte, error)
	}{
		Success([]string{"a"}),
		Success[*int](nil),
		Failure[int](code.NotFound, "missing", WithDetail("id", 1)),
	} {
		want, err := e.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		var erased Envelope[any]
		switch v := e.(type) {
		case Envelope[[]string]:
			erased = v.Any()
		case Envelope[*int]:
			erased = v.Any()
		case Envelope[int]:
			erased = v.Any()
		}
		got, err := erased.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(want) {
			t.Fatalf("Any() marshals to %s, want %s", got, want)
		}
	}
}

func TestMust(t *testing.T) {
	if Success("x").Must() != "x" {
		t.Fatal("Must(success) returned wrong payload")
	}
	defer func() {
		r := recover()
		p, ok := r.(Problem)
		if !ok || p.Code != "E1" {
			t.Fatalf("Must(failure) panic = %#v", r)
		}
	}()
	Failure[string]("E1", "boom").Must()
}

func TestProblem_ErrorInterfaces(t *testing.T) {
	p := NewProblem(code.NotFound, "user missing", WithDetail("id", 7))
	if p.Error() != "NOT_FOUND: user missing" {
		t.Fatalf("Error() = %q", p.Error())
	}
	if p.ErrorCode() != "NOT_FOUND" || p.ErrorMessage() != "user missing" {
		t.Fatal("accessor mismatch")
	}
	if p.ErrorDetails() == nil {
		t.Fatal("details missing")
	}
}

type foreignErr struct{}

func (foreignErr) Error() string        { return "foreign: internal text" }
func (foreignErr) ErrorCode() string    { return "QUOTA_EXCEEDED" }
func (foreignErr) ErrorMessage() string { return "quota exceeded" }
func (foreignErr) ErrorDetails() any    { return map[string]any{"limit": 10} }

type codelessErr struct{}

func (codelessErr) Error() string     { return "x" }
func (codelessErr) ErrorCode() string { return "" }

func TestProblemFrom(t *testing.T) {
	if _, ok := ProblemFrom(nil); ok {
		t.Fatal("nil must not yield a problem")
	}
	if _, ok := ProblemFrom(errors.New("plain")); ok {
		t.Fatal("plain errors carry no code")
	}
	if _, ok := ProblemFrom(codelessErr{}); ok {
		t.Fatal("empty ErrorCode means no opinion")
	}

	wrapped := errorsJoin(NewProblem(code.Conflict, "taken"))
	p, ok := ProblemFrom(wrapped)
	if !ok || p.Code != code.Conflict {
		t.Fatalf("wrapped Problem not found: %+v", p)
	}

	pp := NewProblem(code.Gone, "gone")
	p, ok = ProblemFrom(&pp)
	if !ok || p.Code != code.Gone {
		t.Fatalf("*Problem not found: %+v", p)
	}

	p, ok = ProblemFrom(foreignErr{})
	if !ok {
		t.Fatal("CodedError must be recognized")
	}
	if p.Code != code.QuotaExceeded || p.Message != "quota exceeded" {
		t.Fatalf("foreign = %+v", p)
	}
	if !reflect.DeepEqual(p.Details, map[string]any{"limit": 10}) {
		t.Fatalf("foreign details = %#v", p.Details)
	}
}

func errorsJoin(err error) error {
	return errors.Join(errors.New("context"), err)
}

func TestTimestamps_NonDecreasing(t *testing.T) {
	prev := Success(0).Timestamp()
	for i := 0; i < 1000; i++ {
		var ts int64
		if i%2 == 0 {
			ts = Success(i).Timestamp()
		} else {
			ts = Failure[int]("E1", "x").Timestamp()
		}
		if ts < prev {
			t.Fatalf("timestamp went backwards: %d < %d", ts, prev)
		}
		prev = ts
	}
}

func TestTimestamps_ClampWallClockStepBack(t *testing.T) {
	ticks := []int64{1000, 2000, 1500, 1500, 2500}
	var i int
	useWallClock(t, func() int64 {
		v := ticks[i]
		i++
		return v
	})

	var got []int64
	for range ticks {
		got = append(got, Success(struct{}{}).Timestamp())
	}
	want := []int64{1000, 2000, 2000, 2000, 2500}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("timestamps = %v, want %v", got, want)
	}
}

func TestTimestamps_Concurrent(t *testing.T) {
	const workers, perWorker = 8, 200
	var wg sync.WaitGroup
	errs := make(chan string, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			last := int64(0)
			for i := 0; i < perWorker; i++ {
				ts := Success(i).Timestamp()
				if ts < last {
					errs <- "timestamp went backwards within a goroutine"
					return
				}
				last = ts
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}

func TestTime(t *testing.T) {
	e := Success(1)
	if e.Time().UnixMilli() != e.Timestamp() {
		t.Fatal("Time() must match Timestamp()")
	}
}
