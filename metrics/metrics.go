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

// Package metrics counts envelopes as they leave a service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Transports.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Envelopes counts written envelopes by transport, outcome and code.
// A nil *Envelopes, or one built without a registerer, records nothing.
type Envelopes struct {
	total *prometheus.CounterVec
}

// NewEnvelopes registers the envelope counter on reg.
func NewEnvelopes(reg prometheus.Registerer) *Envelopes {
	if reg == nil {
		return &Envelopes{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "denvelope",
		Name:      "envelopes_total",
		Help:      "Envelopes written, by transport, outcome and failure code.",
	}, []string{"transport", "outcome", "code"})
	reg.MustRegister(total)
	return &Envelopes{total: total}
}

// Observe records one envelope. code is ignored for successes; failures
// without a code are counted under "unknown".
func (e *Envelopes) Observe(transport, outcome, code string) {
	if e == nil || e.total == nil {
		return
	}
	if outcome == OutcomeSuccess {
		code = ""
	} else if code == "" {
		code = "unknown"
	}
	e.total.WithLabelValues(normalizeLabel(transport), normalizeLabel(outcome), code).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
