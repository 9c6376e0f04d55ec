package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/grandauto/garage/internal/domain"
	errs "github.com/grandauto/garage/internal/pkg/errors"
	"github.com/grandauto/garage/internal/storage"
)

// ServiceRepository manages service records. Services are the leaf of the
// entity tree, so deletes are unconditional.
type ServiceRepository struct {
	store *storage.Store
}

// NewServiceRepository creates a service repository on the given store.
func NewServiceRepository(store *storage.Store) *ServiceRepository {
	return &ServiceRepository{store: store}
}

// ServiceInput carries the mutable service fields. Cost is accepted as a
// JSON number or a numeric string and coerced; status defaults to
// "completed" when omitted.
type ServiceInput struct {
	VehicleID   int64  `json:"vehicle_id"`
	ServiceDate string `json:"service_date"`
	Description string `json:"description"`
	Cost        any    `json:"cost"`
	Status      string `json:"status"`
}

// resolveCost validates the input and returns the numeric cost.
func (in ServiceInput) resolveCost() (float64, *errs.AppError) {
	if in.VehicleID == 0 || in.ServiceDate == "" || in.Description == "" || in.Cost == nil {
		return 0, errs.Validation(errs.CodeServiceInvalid,
			"Required fields: vehicle_id, service_date, description, cost")
	}

	var (
		cost float64
		err  error
	)
	switch v := in.Cost.(type) {
	case float64:
		cost = v
	case int:
		cost = float64(v)
	case string:
		if v == "" {
			return 0, errs.Validation(errs.CodeServiceInvalid,
				"Required fields: vehicle_id, service_date, description, cost")
		}
		cost, err = strconv.ParseFloat(v, 64)
	case json.Number:
		cost, err = v.Float64()
	default:
		return 0, errs.Validation(errs.CodeServiceInvalid, "Cost must be a valid positive number")
	}
	if err != nil || cost < 0 {
		return 0, errs.Validation(errs.CodeServiceInvalid, "Cost must be a valid positive number")
	}
	return cost, nil
}

func (in ServiceInput) status() string {
	if in.Status == "" {
		return "completed"
	}
	return in.Status
}

const serviceColumns = `s.id, s.vehicle_id, s.service_date, s.description, s.cost, s.status, s.created_date`

func scanService(row rowScanner) (*domain.Service, error) {
	var s domain.Service
	err := row.Scan(&s.ID, &s.VehicleID, &s.ServiceDate, &s.Description, &s.Cost, &s.Status, &s.CreatedDate)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) vehicleExists(ctx context.Context, vehicleID int64) (bool, error) {
	var one int
	err := r.store.FetchOne(ctx, `SELECT 1 FROM vehicles WHERE id = ?`, vehicleID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a new service record for an existing vehicle and returns
// the stored record with the resolved numeric cost.
func (r *ServiceRepository) Create(ctx context.Context, in ServiceInput) (*domain.Service, error) {
	cost, verr := in.resolveCost()
	if verr != nil {
		return nil, verr
	}

	ok, err := r.vehicleExists(ctx, in.VehicleID)
	if err != nil {
		return nil, errs.Internal("Failed to create service record", err)
	}
	if !ok {
		return nil, errs.NotFound(errs.CodeVehicleNotFound, "Vehicle not found")
	}

	res, err := r.store.Execute(ctx,
		`INSERT INTO services (vehicle_id, service_date, description, cost, status) VALUES (?, ?, ?, ?, ?)`,
		in.VehicleID, in.ServiceDate, in.Description, cost, in.status())
	if err != nil {
		return nil, errs.Internal("Failed to create service record", err)
	}
	return r.getPlain(ctx, res.LastInsertID)
}

func (r *ServiceRepository) getPlain(ctx context.Context, id int64) (*domain.Service, error) {
	row := r.store.FetchOne(ctx, `SELECT `+serviceColumns+` FROM services s WHERE s.id = ?`, id)
	s, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound(errs.CodeServiceNotFound, "Service record not found")
	}
	if err != nil {
		return nil, errs.Internal("Failed to fetch service", err)
	}
	return s, nil
}

// Get returns the service joined with its vehicle and, through the
// vehicle's owner, the customer contact details.
func (r *ServiceRepository) Get(ctx context.Context, id int64) (*domain.Service, error) {
	row := r.store.FetchOne(ctx,
		`SELECT `+serviceColumns+`, v.make, v.model, v.year, v.license_plate,
		        c.name, c.phone, c.email
		 FROM services s
		 JOIN vehicles v ON s.vehicle_id = v.id
		 JOIN customers c ON v.customer_id = c.id
		 WHERE s.id = ?`, id)

	var s domain.Service
	err := row.Scan(&s.ID, &s.VehicleID, &s.ServiceDate, &s.Description, &s.Cost, &s.Status, &s.CreatedDate,
		&s.Make, &s.Model, &s.Year, &s.LicensePlate,
		&s.CustomerName, &s.CustomerPhone, &s.CustomerEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound(errs.CodeServiceNotFound, "Service record not found")
	}
	if err != nil {
		return nil, errs.Internal("Failed to fetch service", err)
	}
	return &s, nil
}

// List returns all services with vehicle and customer context, ordered by
// service date descending.
func (r *ServiceRepository) List(ctx context.Context) ([]*domain.Service, error) {
	rows, err := r.store.FetchMany(ctx,
		`SELECT `+serviceColumns+`, v.make, v.model, v.year, v.license_plate,
		        c.name, c.phone
		 FROM services s
		 JOIN vehicles v ON s.vehicle_id = v.id
		 JOIN customers c ON v.customer_id = c.id
		 ORDER BY s.service_date DESC, s.id DESC`)
	if err != nil {
		return nil, errs.Internal("Failed to fetch services", err)
	}
	defer rows.Close()

	services := []*domain.Service{}
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.VehicleID, &s.ServiceDate, &s.Description, &s.Cost, &s.Status, &s.CreatedDate,
			&s.Make, &s.Model, &s.Year, &s.LicensePlate, &s.CustomerName, &s.CustomerPhone); err != nil {
			return nil, errs.Internal("Failed to fetch services", err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("Failed to fetch services", err)
	}
	return services, nil
}

// ListByVehicle returns the vehicle's service history, most recent first.
func (r *ServiceRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]*domain.Service, error) {
	rows, err := r.store.FetchMany(ctx,
		`SELECT `+serviceColumns+`, v.make, v.model, v.year, v.license_plate, c.name
		 FROM services s
		 JOIN vehicles v ON s.vehicle_id = v.id
		 JOIN customers c ON v.customer_id = c.id
		 WHERE s.vehicle_id = ?
		 ORDER BY s.service_date DESC, s.id DESC`, vehicleID)
	if err != nil {
		return nil, errs.Internal("Failed to fetch vehicle service history", err)
	}
	defer rows.Close()

	services := []*domain.Service{}
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.VehicleID, &s.ServiceDate, &s.Description, &s.Cost, &s.Status, &s.CreatedDate,
			&s.Make, &s.Model, &s.Year, &s.LicensePlate, &s.CustomerName); err != nil {
			return nil, errs.Internal("Failed to fetch vehicle service history", err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("Failed to fetch vehicle service history", err)
	}
	return services, nil
}

// ListByCustomer returns all services across the customer's vehicles,
// most recent first.
func (r *ServiceRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Service, error) {
	rows, err := r.store.FetchMany(ctx,
		`SELECT `+serviceColumns+`, v.make, v.model, v.year, v.license_plate
		 FROM services s
		 JOIN vehicles v ON s.vehicle_id = v.id
		 WHERE v.customer_id = ?
		 ORDER BY s.service_date DESC, s.id DESC`, customerID)
	if err != nil {
		return nil, errs.Internal("Failed to fetch customer service history", err)
	}
	defer rows.Close()

	services := []*domain.Service{}
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.VehicleID, &s.ServiceDate, &s.Description, &s.Cost, &s.Status, &s.CreatedDate,
			&s.Make, &s.Model, &s.Year, &s.LicensePlate); err != nil {
			return nil, errs.Internal("Failed to fetch customer service history", err)
		}
		services = append(services, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("Failed to fetch customer service history", err)
	}
	return services, nil
}

// Update full-replaces the service's fields with the same validation as
// Create, after confirming the record itself exists.
func (r *ServiceRepository) Update(ctx context.Context, id int64, in ServiceInput) (*domain.Service, error) {
	if _, err := r.getPlain(ctx, id); err != nil {
		return nil, err
	}

	cost, verr := in.resolveCost()
	if verr != nil {
		return nil, verr
	}

	ok, err := r.vehicleExists(ctx, in.VehicleID)
	if err != nil {
		return nil, errs.Internal("Failed to update service record", err)
	}
	if !ok {
		return nil, errs.NotFound(errs.CodeVehicleNotFound, "Vehicle not found")
	}

	_, err = r.store.Execute(ctx,
		`UPDATE services SET vehicle_id = ?, service_date = ?, description = ?, cost = ?, status = ? WHERE id = ?`,
		in.VehicleID, in.ServiceDate, in.Description, cost, in.status(), id)
	if err != nil {
		return nil, errs.Internal("Failed to update service record", err)
	}
	return r.getPlain(ctx, id)
}

// Delete removes a service record unconditionally and returns the removed
// snapshot. Nothing depends on a service.
func (r *ServiceRepository) Delete(ctx context.Context, id int64) (*domain.Service, error) {
	existing, err := r.getPlain(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.store.Execute(ctx, `DELETE FROM services WHERE id = ?`, id); err != nil {
		return nil, errs.Internal("Failed to delete service record", err)
	}
	return existing, nil
}

// Stats returns the service total and the summed cost (total revenue).
func (r *ServiceRepository) Stats(ctx context.Context) (*domain.ServiceStats, error) {
	var stats domain.ServiceStats
	if err := r.store.FetchOne(ctx,
		`SELECT COUNT(*), COALESCE(SUM(cost), 0) FROM services`).
		Scan(&stats.TotalServices, &stats.TotalRevenue); err != nil {
		return nil, errs.Internal("Failed to fetch service statistics", err)
	}
	return &stats, nil
}
