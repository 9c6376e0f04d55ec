// Package domain defines the entities of the garage record keeper and the
// aggregate shapes derived from them. Field tags are the wire contract of
// the JSON API, so renames here are breaking changes.
package domain

// Customer owns zero or more vehicles. Email and address are optional and
// read back as null when absent.
type Customer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
	CreatedDate string  `json:"created_date"`
}

// Vehicle belongs to exactly one customer. The license plate is unique
// across the full vehicle set. The customer_* fields are populated only by
// joined read views and omitted elsewhere.
type Vehicle struct {
	ID           int64  `json:"id"`
	CustomerID   int64  `json:"customer_id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate"`
	CreatedDate  string `json:"created_date"`

	CustomerName  string  `json:"customer_name,omitempty"`
	CustomerPhone string  `json:"customer_phone,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

// Service belongs to exactly one vehicle. Vehicle and customer context is
// populated only by joined read views.
type Service struct {
	ID          int64   `json:"id"`
	VehicleID   int64   `json:"vehicle_id"`
	ServiceDate string  `json:"service_date"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Status      string  `json:"status"`
	CreatedDate string  `json:"created_date"`

	Make          string  `json:"make,omitempty"`
	Model         string  `json:"model,omitempty"`
	Year          int     `json:"year,omitempty"`
	LicensePlate  string  `json:"license_plate,omitempty"`
	CustomerName  string  `json:"customer_name,omitempty"`
	CustomerPhone string  `json:"customer_phone,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

// CustomerStats summarizes the customer set.
type CustomerStats struct {
	TotalCustomers           int `json:"totalCustomers"`
	CustomersWithVehicles    int `json:"customersWithVehicles"`
	CustomersWithoutVehicles int `json:"customersWithoutVehicles"`
}

// MakeCount is one row of the vehicles-by-make breakdown.
type MakeCount struct {
	Make  string `json:"make"`
	Count int    `json:"count"`
}

// VehicleStats summarizes the vehicle set. AverageYear is the rounded mean
// model year, 0 when no vehicles exist.
type VehicleStats struct {
	TotalVehicles  int         `json:"totalVehicles"`
	VehiclesByMake []MakeCount `json:"vehiclesByMake"`
	AverageYear    int         `json:"averageYear"`
}

// ServiceStats summarizes the service set. TotalRevenue is the sum of cost
// across all service records.
type ServiceStats struct {
	TotalServices int     `json:"totalServices"`
	TotalRevenue  float64 `json:"totalRevenue"`
}
