package handlers

import (
	"delivery-scheduler/internal/api/dto"
	"delivery-scheduler/internal/services"
	"net/http"
	"slices"
)

// PlanHandler exposes the finished run: per-truck routes and mileage.
type PlanHandler struct {
	Result *services.RunResult
}

func (h *PlanHandler) Routes(w http.ResponseWriter, r *http.Request) {
	res := dto.ListPlanResponse{
		RunID: h.Result.RunID,
		Plans: make([]dto.PlanResponse, 0, len(h.Result.Routes)),
	}
	for _, p := range h.Result.Routes {
		stops := make([]dto.PlanStopResponse, 0, len(p.Stops))
		for _, s := range p.Stops {
			stops = append(stops, dto.PlanStopResponse{
				Destination: s.Destination,
				ArriveAt:    s.ArriveAt.String(),
				PackageIDs:  s.PackageIDs,
			})
		}

		res.Plans = append(res.Plans, dto.PlanResponse{
			TruckID:    p.TruckID,
			DepartAt:   p.DepartAt.String(),
			ReturnAt:   p.ReturnAt.String(),
			TotalMiles: p.TotalMiles,
			Stops:      stops,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *PlanHandler) Mileage(w http.ResponseWriter, r *http.Request) {
	miles := h.Result.TruckMiles()
	ids := make([]int, 0, len(miles))
	for id := range miles {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	res := dto.MileageResponse{
		RunID:        h.Result.RunID,
		TotalMiles:   h.Result.TotalMiles,
		Trucks:       make([]dto.TruckMileageResponse, 0, len(ids)),
		LatePackages: h.Result.LatePackages,
	}
	if res.LatePackages == nil {
		res.LatePackages = []int{}
	}
	for _, id := range ids {
		res.Trucks = append(res.Trucks, dto.TruckMileageResponse{TruckID: id, Miles: miles[id]})
	}

	writeJSON(w, r, http.StatusOK, res)
}
