package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/shuliakovsky/peersync/pkg/coordinator"
	"github.com/shuliakovsky/peersync/pkg/metrics"
)

// RegisterRoutes mounts the introspection surface described in
// SPEC_FULL.md §8 onto mux.
func RegisterRoutes(mux *http.ServeMux, coord *coordinator.Coordinator, logger *zap.Logger) {
	intro := NewIntrospection(coord, logger)

	mux.HandleFunc("/status", intro.Status)
	mux.HandleFunc("/peers", intro.Peers)
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/swagger.json"),
		httpSwagger.InstanceName("swagger"),
	))
	mux.HandleFunc("/swagger/swagger.json", SwaggerJSON)
}
