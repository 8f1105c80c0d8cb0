package dto

type PackageStatusResponse struct {
	PackageID   int     `json:"package_id"`
	Status      string  `json:"status"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Zip         string  `json:"zip"`
	Deadline    string  `json:"deadline"`
	Weight      float64 `json:"weight"`
	Note        string  `json:"note,omitempty"`
	TruckID     *int    `json:"truck_id"`
	LoadedAt    *string `json:"loaded_at"`
	DeliveredAt *string `json:"delivered_at"`
	Report      string  `json:"report"`
}

type ListPackagesResponse struct {
	At       string                  `json:"at"`
	Packages []PackageStatusResponse `json:"packages"`
}
