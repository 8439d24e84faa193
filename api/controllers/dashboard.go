package controllers

import (
	"net/http"

	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/responses"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/api/validators"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/internal/dashboard"
	pkgerrors "github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/errors"
	"github.com/mhcottonclothbd/MHCloth-web-sub002/pkg/logger"
)

// AdminDashboardSummary returns revenue and order aggregates for the admin
// overview, windowed by the optional days query parameter.
func AdminDashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		days, err := validators.ParseQueryInt(r, "days", dashboard.DefaultWindowDays, 1, dashboard.MaxWindowDays)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summarize(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
