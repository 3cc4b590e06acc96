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

// Package grpcx projects failure envelopes onto gRPC statuses and back.
//
// A failure travels as a status whose code comes from the Mapper and whose
// message is the Problem message. Two details are attached:
//
//   - google.rpc.ErrorInfo with reason = the failure code, the configured
//     domain and the resolved HTTP status in metadata;
//   - a google.protobuf.Value holding the Problem details, when present.
package grpcx

import (
	"context"
	"encoding/json"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/protoadapt"
	"google.golang.org/protobuf/types/known/structpb"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/adapter"
	"dirpx.dev/denvelope/apis"
	"dirpx.dev/denvelope/code"
	"dirpx.dev/denvelope/logger"
	"dirpx.dev/denvelope/mapper"
	"dirpx.dev/denvelope/metrics"
)

// DefaultDomain is used when an empty domain is given.
const DefaultDomain = "denvelope.dirpx.dev"

// Metadata keys of the ErrorInfo detail.
const (
	MetaHTTPStatus = "http_status"
	MetaRoot       = "root"
)

var defaultMapper = mustDefaultMapper()

func mustDefaultMapper() apis.Mapper {
	m, err := mapper.New()
	if err != nil {
		panic(err)
	}
	return m
}

// ToStatus converts p into a gRPC status using m (the default mapping when
// nil). Details that cannot be expressed as a protobuf Value are dropped;
// the ErrorInfo is always attached.
func ToStatus(p denvelope.Problem, m apis.Mapper, domain string) *status.Status {
	if m == nil {
		m = defaultMapper
	}
	if domain == "" {
		domain = DefaultDomain
	}
	st := m.Status(p.Code)

	info := &errdetails.ErrorInfo{
		Reason:   string(p.Code),
		Domain:   domain,
		Metadata: map[string]string{MetaHTTPStatus: strconv.Itoa(st.HTTP)},
	}
	if root := p.Code.Root(); root != p.Code {
		info.Metadata[MetaRoot] = string(root)
	}

	details := []protoadapt.MessageV1{info}
	if v, ok := detailsValue(p.Details); ok {
		details = append(details, v)
	}

	base := status.New(st.GRPC, p.Message)
	if with, err := base.WithDetails(details...); err == nil {
		return with
	}
	return base
}

// detailsValue goes through JSON so that structs and typed slices become
// the maps and lists structpb accepts.
func detailsValue(d any) (*structpb.Value, bool) {
	if d == nil {
		return nil, false
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, false
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, false
	}
	v, err := structpb.NewValue(generic)
	if err != nil {
		return nil, false
	}
	return v, true
}

// FromStatus rebuilds a Problem from st. The code is the ErrorInfo reason
// when present and code.FromGRPC(st.Code()) otherwise.
func FromStatus(st *status.Status) denvelope.Problem {
	p := denvelope.Problem{
		Code:    code.FromGRPC(st.Code()),
		Message: st.Message(),
	}
	for _, d := range st.Details() {
		switch d := d.(type) {
		case *errdetails.ErrorInfo:
			if d.GetReason() != "" {
				p.Code = code.Code(d.GetReason())
			}
		case *structpb.Value:
			p.Details = d.AsInterface()
		}
	}
	return p
}

func hasErrorInfo(st *status.Status) bool {
	for _, d := range st.Details() {
		if _, ok := d.(*errdetails.ErrorInfo); ok {
			return true
		}
	}
	return false
}

// ProblemOf extracts a Problem from a gRPC status error. It reports false
// for nil, for codes.OK and for errors that carry no status.
func ProblemOf(err error) (denvelope.Problem, bool) {
	if err == nil {
		return denvelope.Problem{}, false
	}
	st, ok := adapter.StatusOf(err)
	if !ok || st.Code() == codes.OK {
		return denvelope.Problem{}, false
	}
	return FromStatus(st), true
}

// Envelope folds the result of a client call into an envelope.
func Envelope[T any](resp T, err error) denvelope.Envelope[T] {
	if err == nil {
		return denvelope.Success(resp)
	}
	if p, ok := ProblemOf(err); ok {
		return denvelope.FromProblem[T](p)
	}
	return adapter.FromError[T](err)
}

// UnaryServerInterceptor converts handler errors into statuses built by
// ToStatus. Problems, coded errors and statuses carrying ErrorInfo keep
// their code. Other errors are classified by adapter.ProblemOf. Details of
// INTERNAL failures are not sent. Every call is counted, failures are
// logged.
func UnaryServerInterceptor(m apis.Mapper, logg *logger.Logger, met *metrics.Envelopes, domain string) grpc.UnaryServerInterceptor {
	if m == nil {
		m = defaultMapper
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			met.Observe(metrics.TransportGRPC, metrics.OutcomeSuccess, "")
			return resp, nil
		}

		var p denvelope.Problem
		if st, ok := adapter.StatusOf(err); ok && hasErrorInfo(st) {
			p = FromStatus(st)
		} else {
			p = adapter.ProblemOf(err)
		}
		if logg != nil {
			fields := adapter.Fields(adapter.ToDescriptor(p, m.Status(p.Code)))
			fields["grpc_method"] = info.FullMethod
			logg.Error(logg.WithFields(ctx, fields), "envelope.failure", err)
		}
		met.Observe(metrics.TransportGRPC, metrics.OutcomeFailure, string(p.Code))

		if code.IsInternal(p.Code) {
			p = p.WithDetails(nil)
		}
		return nil, ToStatus(p, m, domain).Err()
	}
}
