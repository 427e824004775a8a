package api

import (
	"crypto/tls"
	"encoding/json"
	"net/http"
	"time"

	"github.com/adamdecaf/farecheck/internal/monitor"

	"github.com/gorilla/mux"
	"github.com/moov-io/base/log"
)

func Server(logger log.Logger, bindAddress string, sched *monitor.Scheduler) (*http.Server, error) {
	router := mux.NewRouter()
	serve := &http.Server{
		Addr:    bindAddress,
		Handler: router,
		TLSConfig: &tls.Config{
			InsecureSkipVerify:       false,
			PreferServerCipherSuites: true,
			MinVersion:               tls.VersionTLS12,
		},
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	router.
		Methods("GET").
		Path("/entities").
		HandlerFunc(listEntities(sched))

	router.
		Methods("POST", "PUT").
		Path("/entities/{identity}/trigger").
		HandlerFunc(triggerEntity(logger, sched))

	go func() {
		logger.Info().Logf("HTTP server starting on %s", bindAddress)

		err := serve.ListenAndServe()
		if err != nil {
			logger.Warn().Logf("http server: %v", err)
		}
	}()

	return serve, nil
}

type entitiesResponse struct {
	Entities []monitor.EntityStatus `json:"entities"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func listEntities(sched *monitor.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		json.NewEncoder(w).Encode(entitiesResponse{
			Entities: sched.Status(),
		})
	}
}

func triggerEntity(logger log.Logger, sched *monitor.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := mux.Vars(r)["identity"]

		logger := logger.With(log.Fields{
			"entity": log.String(identity),
		})
		logger.Log("handling manual trigger")

		err := sched.TriggerNow(monitor.Identity(identity))
		if err != nil {
			logger.LogErrorf("problem triggering entity: %v", err)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)

			json.NewEncoder(w).Encode(errorResponse{
				Error: err.Error(),
			})

			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
