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

package main

import (
	"context"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/apis"
	"dirpx.dev/denvelope/code"
	"dirpx.dev/denvelope/grpcx"
	"dirpx.dev/denvelope/logger"
	"dirpx.dev/denvelope/metrics"
)

// healthService answers for the empty service name only; any other name is
// a NOT_FOUND.SERVICE failure, which the interceptor turns into a status.
type healthService struct {
	healthpb.UnimplementedHealthServer
}

func (healthService) Check(_ context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if req.GetService() != "" {
		return nil, denvelope.NewProblem(code.NotFound.Child("service"), "unknown service",
			denvelope.WithDetail("service", req.GetService()))
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}

func newGRPCServer(m apis.Mapper, logg *logger.Logger, met *metrics.Envelopes, domain string) *grpc.Server {
	s := grpc.NewServer(grpc.UnaryInterceptor(grpcx.UnaryServerInterceptor(m, logg, met, domain)))
	healthpb.RegisterHealthServer(s, healthService{})
	return s
}
