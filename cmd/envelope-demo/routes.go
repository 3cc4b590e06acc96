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
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dirpx.dev/denvelope"
	"dirpx.dev/denvelope/adapter"
	"dirpx.dev/denvelope/code"
	"dirpx.dev/denvelope/httpx"
	"dirpx.dev/denvelope/replay"
)

// Codes the demo adds on top of the well-known ones.
var (
	codeItemNotFound     = code.NotFound.Child("item")
	codeRouteNotFound    = code.NotFound.Child("route")
	codeMethodNotAllowed = code.Invalid.Child("method")
)

type routerDeps struct {
	writer      httpx.Writer
	replay      replay.Store
	replayTTL   time.Duration
	gatherer    prometheus.Gatherer
	corsOrigins []string
	items       *itemStore
}

func newRouter(d routerDeps) http.Handler {
	w := d.writer
	r := chi.NewRouter()

	r.Use(httpx.RequestID(w))
	r.Use(httpx.Recoverer(w))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: d.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", httpx.IdempotencyKeyHeader, httpx.RequestIDHeader},
		ExposedHeaders: []string{httpx.RequestIDHeader, httpx.ReplayedHeader},
		MaxAge:         300,
	}).Handler)

	r.NotFound(func(rw http.ResponseWriter, req *http.Request) {
		w.WriteProblem(req.Context(), rw, denvelope.NewProblem(codeRouteNotFound, "no route for "+req.URL.Path))
	})
	r.MethodNotAllowed(func(rw http.ResponseWriter, req *http.Request) {
		w.WriteProblem(req.Context(), rw, denvelope.NewProblem(codeMethodNotAllowed, req.Method+" not allowed"))
	})

	r.Get("/healthz", func(rw http.ResponseWriter, req *http.Request) {
		w.Write(req.Context(), rw, denvelope.Success(map[string]string{"status": "ok"}))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))

	h := &itemHandlers{w: w, items: d.items}
	r.Route("/v1", func(r chi.Router) {
		r.Get("/answer", h.answer)
		r.Get("/items/{id}", h.get)
		r.With(httpx.Idempotency(d.replay, w, d.replayTTL)).Post("/items", h.create)
		r.Get("/panic", func(http.ResponseWriter, *http.Request) {
			panic("demo panic")
		})
	})
	return r
}

type item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Qty       int       `json:"qty"`
	CreatedAt time.Time `json:"created_at"`
}

type createItemRequest struct {
	Name string `json:"name" validate:"required,max=64"`
	Qty  int    `json:"qty" validate:"min=1,max=1000"`
}

type itemStore struct {
	mu    sync.RWMutex
	items map[string]item
}

func newItemStore() *itemStore {
	return &itemStore{items: make(map[string]item)}
}

func (s *itemStore) get(id string) (item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return item{}, denvelope.NewProblem(codeItemNotFound, "item not found", denvelope.WithDetail("id", id))
	}
	return it, nil
}

func (s *itemStore) add(req createItemRequest) item {
	it := item{ID: uuid.NewString(), Name: req.Name, Qty: req.Qty, CreatedAt: time.Now().UTC()}
	s.mu.Lock()
	s.items[it.ID] = it
	s.mu.Unlock()
	return it
}

type itemHandlers struct {
	w     httpx.Writer
	items *itemStore
}

func (h *itemHandlers) answer(rw http.ResponseWriter, r *http.Request) {
	h.w.Write(r.Context(), rw, denvelope.Success(map[string]int{"answer": 42}))
}

func (h *itemHandlers) get(rw http.ResponseWriter, r *http.Request) {
	it, err := h.items.get(chi.URLParam(r, "id"))
	h.w.Write(r.Context(), rw, adapter.Result(it, err))
}

func (h *itemHandlers) create(rw http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.w.WriteError(r.Context(), rw, err)
		return
	}
	h.w.WriteStatus(r.Context(), rw, http.StatusCreated, denvelope.Success(h.items.add(req)))
}
