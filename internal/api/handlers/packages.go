package handlers

import (
	"delivery-scheduler/internal/api/dto"
	"delivery-scheduler/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PackageHandler exposes read-only package status endpoints.
type PackageHandler struct {
	Reporter *services.Reporter
}

// List reports every package at the "at" query time.
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	at := queryTime(r)
	t, err := services.ParseQueryTime(at)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	reports := h.Reporter.AllStatusesAt(t)
	res := dto.ListPackagesResponse{
		At:       t.String(),
		Packages: make([]dto.PackageStatusResponse, 0, len(reports)),
	}
	for _, rep := range reports {
		res.Packages = append(res.Packages, toPackageStatus(rep))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Status reports one package at the "at" query time.
func (h *PackageHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, err := services.ParsePackageID(chi.URLParam(r, "id"))
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	rep, err := h.Reporter.Status(id, queryTime(r))
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toPackageStatus(rep))
}

func toPackageStatus(rep services.StatusReport) dto.PackageStatusResponse {
	res := dto.PackageStatusResponse{
		PackageID: rep.PackageID,
		Status:    string(rep.Status),
		Address:   rep.Address.Street,
		City:      rep.Address.City,
		State:     rep.Address.State,
		Zip:       rep.Address.Zip,
		Deadline:  rep.Deadline.Short(),
		Weight:    rep.Weight,
		Note:      rep.Note,
		TruckID:   rep.TruckID,
		Report:    rep.String(),
	}
	if rep.TimeLoaded != nil {
		s := rep.TimeLoaded.String()
		res.LoadedAt = &s
	}
	if rep.TimeDelivered != nil {
		s := rep.TimeDelivered.String()
		res.DeliveredAt = &s
	}
	return res
}
