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

package httpx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/apis"
	"dirpx.dev/denvelope/code"
	"dirpx.dev/denvelope/logger"
	"dirpx.dev/denvelope/mapper"
	"dirpx.dev/denvelope/metrics"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) denvelope.Envelope[T] {
	t.Helper()
	env, err := denvelope.Decode[T](rec.Body.Bytes())
	require.NoError(t, err, rec.Body.String())
	return env
}

func TestWriter_Success(t *testing.T) {
	rec := httptest.NewRecorder()
	Writer{}.Write(context.Background(), rec, denvelope.Success(item{ID: "1", Name: "pen"}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	env := decodeBody[item](t, rec)
	require.Equal(t, item{ID: "1", Name: "pen"}, env.Must())

	rec = httptest.NewRecorder()
	Writer{}.WriteStatus(context.Background(), rec, http.StatusCreated, denvelope.Success(1))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestWriter_Failure(t *testing.T) {
	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	w := Writer{
		Logger:  logger.New(logger.Options{ServiceName: "test", Output: &logs}),
		Metrics: metrics.NewEnvelopes(reg),
	}

	rec := httptest.NewRecorder()
	w.Write(context.Background(), rec, denvelope.Failure[item]("NOT_FOUND.USER", "user not found",
		denvelope.WithDetail("id", "42")))
	require.Equal(t, http.StatusNotFound, rec.Code)
	p, ok := decodeBody[item](t, rec).Problem()
	require.True(t, ok)
	require.Equal(t, code.Code("NOT_FOUND.USER"), p.Code)
	require.Equal(t, map[string]any{"id": "42"}, p.Details)

	require.Contains(t, logs.String(), `"error_code":"NOT_FOUND.USER"`)
	require.Contains(t, logs.String(), `"http_status":404`)

	w.Write(context.Background(), httptest.NewRecorder(), denvelope.Success(1))

	expected := `
# HELP denvelope_envelopes_total Envelopes written, by transport, outcome and failure code.
# TYPE denvelope_envelopes_total counter
denvelope_envelopes_total{code="",outcome="success",transport="http"} 1
denvelope_envelopes_total{code="NOT_FOUND.USER",outcome="failure",transport="http"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "denvelope_envelopes_total"))
}

func TestWriter_MapperOverride(t *testing.T) {
	m, err := mapper.New(mapper.WithHTTPOverride(code.NotFound, http.StatusGone))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	Writer{Mapper: m}.WriteProblem(context.Background(), rec, denvelope.NewProblem(code.NotFound, "gone"))
	require.Equal(t, http.StatusGone, rec.Code)
}

func TestWriter_InternalDetails(t *testing.T) {
	fail := denvelope.Failure[int](code.Internal.Child("db"), "query failed", denvelope.WithDetail("sql", "SELECT 1"))

	rec := httptest.NewRecorder()
	Writer{}.Write(context.Background(), rec, fail)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	p, _ := decodeBody[int](t, rec).Problem()
	require.Nil(t, p.Details)
	require.Equal(t, "query failed", p.Message)

	rec = httptest.NewRecorder()
	Writer{ExposeInternal: true}.Write(context.Background(), rec, fail)
	p, _ = decodeBody[int](t, rec).Problem()
	require.Equal(t, map[string]any{"sql": "SELECT 1"}, p.Details)

	rec = httptest.NewRecorder()
	Writer{}.Write(context.Background(), rec, denvelope.Failure[int](code.Conflict, "taken", denvelope.WithDetail("id", 1.0)))
	p, _ = decodeBody[int](t, rec).Problem()
	require.NotNil(t, p.Details, "only INTERNAL details are stripped")

	for _, c := range []code.Code{"internal", "internal/db", "Internal.DB"} {
		rec = httptest.NewRecorder()
		Writer{}.Write(context.Background(), rec, denvelope.Failure[int](c, "query failed", denvelope.WithDetail("sql", "SELECT 1")))
		require.Equal(t, http.StatusInternalServerError, rec.Code, c)
		p, _ = decodeBody[int](t, rec).Problem()
		require.Nil(t, p.Details, c)
	}
}

func TestWriter_WriteError(t *testing.T) {
	var logs bytes.Buffer
	w := Writer{Logger: logger.New(logger.Options{Output: &logs})}

	rec := httptest.NewRecorder()
	w.WriteError(context.Background(), rec, errors.New("dial tcp 10.0.0.7:5432: connection refused"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "10.0.0.7")
	p, _ := decodeBody[any](t, rec).Problem()
	require.Equal(t, code.Internal, p.Code)
	require.Equal(t, "unexpected error", p.Message)
	require.Contains(t, logs.String(), "10.0.0.7", "the cause must reach the logs")

	logs.Reset()
	rec = httptest.NewRecorder()
	w.WriteError(context.Background(), rec,
		fmt.Errorf("load user: %w", status.Error(codes.Unknown, `pq: password authentication failed for user "admin"`)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "password")
	require.NotContains(t, rec.Body.String(), "load user")
	p, _ = decodeBody[any](t, rec).Problem()
	require.Equal(t, "unexpected error", p.Message)
	require.Contains(t, logs.String(), "password authentication failed")

	rec = httptest.NewRecorder()
	w.WriteError(context.Background(), rec, context.DeadlineExceeded)
	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		success bool
		code    code.Code
		wantErr bool
	}{
		{"success", 200, `{"success":true,"data":{"id":"1","name":"pen"},"timestamp":5}`, true, "", false},
		{"failure envelope", 404, `{"success":false,"error":{"code":"NOT_FOUND","message":"missing"},"timestamp":5}`, false, code.NotFound, false},
		{"proxy page", 502, `<html>Bad Gateway</html>`, false, code.DependencyFailed, false},
		{"empty 503", 503, ``, false, code.Unavailable, false},
		{"garbage on 200", 200, `not json`, false, "", true},
		{"invalid failure", 400, `{"success":false,"error":{"code":"","message":""},"timestamp":5}`, false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.status, Body: io.NopCloser(strings.NewReader(tt.body))}
			env, err := Read[item](resp)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.success, env.IsSuccess())
			if !tt.success {
				p, _ := env.Problem()
				require.Equal(t, tt.code, p.Code)
			}
		})
	}

	_, err := Read[item](nil)
	require.Error(t, err)
}

func TestRead_RoundTripThroughServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		Writer{}.Write(r.Context(), rw, denvelope.Failure[item](code.RateLimited, "slow down"))
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	env, err := Read[item](resp)
	require.NoError(t, err)
	p, _ := env.Problem()
	require.Equal(t, code.RateLimited, p.Code)
	require.Equal(t, "slow down", p.Message)
}

type createItem struct {
	Name string `json:"name" validate:"required,max=16"`
	Qty  int    `json:"qty" validate:"min=1"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		code code.Code
	}{
		{"valid", `{"name":"pen","qty":2}`, ""},
		{"empty", ``, code.Missing},
		{"syntax", `{"name":`, code.Invalid},
		{"unknown field", `{"name":"pen","qty":1,"color":"red"}`, code.Invalid},
		{"trailing value", `{"name":"pen","qty":1}{}`, code.Invalid},
		{"rules", `{"name":"","qty":0}`, code.Validation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/v1/items", strings.NewReader(tt.body))
			var dest createItem
			err := DecodeJSON(r, &dest)
			if tt.code == "" {
				require.NoError(t, err)
				require.Equal(t, createItem{Name: "pen", Qty: 2}, dest)
				return
			}
			p, ok := denvelope.ProblemFrom(err)
			require.True(t, ok, "error must be a Problem: %v", err)
			require.Equal(t, tt.code, p.Code)
		})
	}
}

func TestDecodeJSON_Violations(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/v1/items", strings.NewReader(`{"qty":0}`))
	err := DecodeJSON(r, &createItem{})
	p, ok := denvelope.ProblemFrom(err)
	require.True(t, ok)
	require.Equal(t, []apis.Violation{
		{Field: "name", Rule: "required", Message: "is required"},
		{Field: "qty", Rule: "min", Param: "1", Message: "must be at least 1"},
	}, p.Details)
}
