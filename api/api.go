// Package api serves the relay's operational HTTP endpoints: liveness,
// readiness, version, heartbeats and prometheus metrics.
package api

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/streamsink/kv"
	"github.com/batchcorp/streamsink/relay"
)

var (
	ErrMissingConfig        = errors.New("api config cannot be nil")
	ErrMissingListenAddress = errors.New("ListenAddress cannot be empty")
	ErrMissingRelay         = errors.New("Relay cannot be nil")
)

// Status is the read-only view of a relay that the API reports on
type Status interface {
	ID() string
	State() relay.State
	Stats() relay.Stats
}

type Config struct {
	ListenAddress string
	Version       string
	Relay         Status

	// KV and ConsumerGroup are optional; when set, heartbeats of other relays
	// in the same consumer group can be looked up
	KV            kv.IKV
	ConsumerGroup string
}

type API struct {
	*Config
	log *logrus.Entry
}

type ResponseJSON struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Values  map[string]string `json:"values,omitempty"`
	Errors  string            `json:"errors,omitempty"`
}

type StatusResponse struct {
	RelayID string      `json:"relay_id"`
	State   relay.State `json:"state"`
	Stats   relay.Stats `json:"stats"`
}

func Start(cfg *Config) (*http.Server, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate api config")
	}

	a := &API{
		Config: cfg,
		log:    logrus.WithField("pkg", "api"),
	}

	a.log.Debugf("starting API server on %s", cfg.ListenAddress)

	srv := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: a.newRouter(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				a.log.Errorf("unable to srv.ListenAndServe: %s", err)
			}
		}
	}()

	return srv, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return ErrMissingConfig
	}

	if cfg.ListenAddress == "" {
		return ErrMissingListenAddress
	}

	if cfg.Relay == nil {
		return ErrMissingRelay
	}

	return nil
}

func (a *API) newRouter() *httprouter.Router {
	router := httprouter.New()

	router.HandlerFunc("GET", "/health-check", a.healthCheckHandler)
	router.HandlerFunc("GET", "/ready", a.readyHandler)
	router.HandlerFunc("GET", "/version", a.versionHandler)

	router.HandlerFunc("GET", "/v1/relay", a.relayHandler)
	router.Handle("GET", "/v1/heartbeat/:id", a.getHeartbeatHandler)

	router.Handler("GET", "/metrics", promhttp.Handler())

	return router
}

func (a *API) healthCheckHandler(rw http.ResponseWriter, r *http.Request) {
	WriteJSON(http.StatusOK, map[string]string{"status": "ok"}, rw)
}

// readyHandler only reports ready while records are flowing
func (a *API) readyHandler(rw http.ResponseWriter, r *http.Request) {
	status := a.status()

	code := http.StatusOK

	if status.State != relay.StateStreaming {
		code = http.StatusServiceUnavailable
	}

	WriteJSON(code, status, rw)
}

func (a *API) versionHandler(rw http.ResponseWriter, r *http.Request) {
	response := &ResponseJSON{Status: http.StatusOK, Message: "batchcorp/streamsink " + a.Version}

	WriteJSON(http.StatusOK, response, rw)
}

func (a *API) relayHandler(rw http.ResponseWriter, r *http.Request) {
	WriteJSON(http.StatusOK, a.status(), rw)
}

func (a *API) getHeartbeatHandler(rw http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if a.KV == nil {
		WriteErrorJSON(http.StatusNotFound, "heartbeats are not enabled", rw)
		return
	}

	data, err := a.KV.GetIfValid(r.Context(), relay.HeartbeatKey(a.ConsumerGroup, p.ByName("id")))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			WriteErrorJSON(http.StatusNotFound, "no live relay with that id", rw)
			return
		}

		a.log.Errorf("unable to fetch heartbeat: %s", err)
		WriteErrorJSON(http.StatusInternalServerError, err.Error(), rw)

		return
	}

	hb := &relay.Heartbeat{}

	if err := jsoniter.Unmarshal(data, hb); err != nil {
		WriteErrorJSON(http.StatusInternalServerError, "unable to decode heartbeat: "+err.Error(), rw)
		return
	}

	WriteJSON(http.StatusOK, hb, rw)
}

func (a *API) status() *StatusResponse {
	return &StatusResponse{
		RelayID: a.Relay.ID(),
		State:   a.Relay.State(),
		Stats:   a.Relay.Stats(),
	}
}

func WriteJSON(statusCode int, data interface{}, w http.ResponseWriter) {
	w.Header().Add("Content-type", "application/json")

	jsonData, err := jsoniter.Marshal(data)
	if err != nil {
		w.WriteHeader(500)
		logrus.Errorf("Unable to marshal data in WriteJSON: %s", err)
		return
	}

	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		logrus.Errorf("Unable to write response data: %s", err)
		return
	}
}

func WriteErrorJSON(statusCode int, msg string, w http.ResponseWriter) {
	WriteJSON(statusCode, map[string]string{"error": msg}, w)
}
