package dto

type PlanStopResponse struct {
	Destination string `json:"destination"`
	ArriveAt    string `json:"arrive_at"`
	PackageIDs  []int  `json:"package_ids"`
}

type PlanResponse struct {
	TruckID    int                `json:"truck_id"`
	DepartAt   string             `json:"depart_at"`
	ReturnAt   string             `json:"return_at"`
	TotalMiles float64            `json:"total_miles"`
	Stops      []PlanStopResponse `json:"stops"`
}

type ListPlanResponse struct {
	RunID string         `json:"run_id"`
	Plans []PlanResponse `json:"plans"`
}

type TruckMileageResponse struct {
	TruckID int     `json:"truck_id"`
	Miles   float64 `json:"miles"`
}

type MileageResponse struct {
	RunID        string                 `json:"run_id"`
	TotalMiles   float64                `json:"total_miles"`
	Trucks       []TruckMileageResponse `json:"trucks"`
	LatePackages []int                  `json:"late_packages"`
}
