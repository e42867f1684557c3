package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/stepglobe/internal/stepglobe/store"
	"github.com/aussiebroadwan/stepglobe/pkg/httpx"
	"github.com/aussiebroadwan/stepglobe/pkg/jwtx"
	"github.com/aussiebroadwan/stepglobe/pkg/stepsdk"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness check
//	@Description	Checks the database, the signing keys and the roster cache.
//	@Description	The cache reports "disabled" when none is configured and never fails the check.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	stepsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	stepsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
	cache Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &stepsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
			Cache:    "disabled",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// the roster falls back to the database, so a dead cache only degrades
		if cache != nil {
			checks.Cache = "ok"
			if err := cache.Ping(r.Context()); err != nil {
				checks.Cache = "error: " + err.Error()
				if overallStatus == "ok" {
					overallStatus = "degraded"
				}
			}
		}

		httpx.WriteJSON(w, statusCode, stepsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness check
//	@Description	Always 200 while the process is serving, with uptime and version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	stepsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, stepsdk.HealthResponse{Status: "ok", Uptime: time.Since(startTime).String(), Version: version})
	}
}

// JWKSHandler publishes the public half of the session signing keys.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set that verifies access tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	stepsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, stepsdk.JWKSResponse(keys.PublicJWKS()))
	}
}
