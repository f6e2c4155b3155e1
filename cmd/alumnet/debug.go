package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alumnet/go-alumnet"
	"github.com/alumnet/go-alumnet/pkg/types"
)

// maxEmitBody POST /emit 请求体上限
const maxEmitBody = 64 << 10

// eventStatus /debug/events 中单个事件的状态
type eventStatus struct {
	Event       types.EventName `json:"event"`
	Subscribers int             `json:"subscribers"`
}

// debugStatus /debug/events 响应
type debugStatus struct {
	Version       string        `json:"version"`
	Running       bool          `json:"running"`
	Events        []eventStatus `json:"events"`
	ActiveGuards  int           `json:"activeGuards"`
	GuardCooldown string        `json:"guardCooldown"`
}

// newDebugRouter 构建调试 HTTP 路由
//
//	GET  /metrics        Prometheus 指标
//	GET  /debug/events   所有已知事件的订阅数与守卫状态
//	POST /emit/{event}   以 JSON 载荷发射事件
func newDebugRouter(rt *alumnet.Runtime) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(rt.Gatherer(), promhttp.HandlerOpts{}))
	r.Get("/debug/events", handleEvents(rt))
	r.Post("/emit/{event}", handleEmit(rt))
	return r
}

func handleEvents(rt *alumnet.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		bus := rt.Bus()
		status := debugStatus{
			Version:       alumnet.Version,
			Running:       rt.IsRunning(),
			ActiveGuards:  rt.Guards().Active(),
			GuardCooldown: rt.Guards().Cooldown().String(),
		}
		for _, name := range types.AllEvents() {
			status.Events = append(status.Events, eventStatus{Event: name, Subscribers: bus.Subscribers(name)})
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func handleEmit(rt *alumnet.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := types.EventName(chi.URLParam(r, "event"))
		if !name.Known() {
			writeError(w, http.StatusNotFound, types.ErrUnknownEvent)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxEmitBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		payload, err := types.DecodePayload(name, body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if p, ok := payload.(types.TabRefresh); ok && p.Timestamp == 0 {
			payload = types.NewTabRefresh(time.Now())
		}

		rt.Bus().Emit(name, payload)
		writeJSON(w, http.StatusAccepted, eventStatus{Event: name, Subscribers: rt.Bus().Subscribers(name)})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("写入响应失败", "error", err)
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	if errors.Is(err, types.ErrUnknownEvent) {
		code = http.StatusNotFound
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
