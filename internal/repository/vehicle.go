package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/grandauto/garage/internal/domain"
	errs "github.com/grandauto/garage/internal/pkg/errors"
	"github.com/grandauto/garage/internal/storage"
)

// VehicleRepository manages vehicle records: ownership checks against
// customers, the global license-plate uniqueness rule, and the delete
// guard against dependent service records.
type VehicleRepository struct {
	store *storage.Store
}

// NewVehicleRepository creates a vehicle repository on the given store.
func NewVehicleRepository(store *storage.Store) *VehicleRepository {
	return &VehicleRepository{store: store}
}

// VehicleInput carries the mutable vehicle fields. All are required.
type VehicleInput struct {
	CustomerID   int64  `json:"customer_id"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	LicensePlate string `json:"license_plate"`
}

func (in VehicleInput) validate() *errs.AppError {
	if in.CustomerID == 0 || in.Make == "" || in.Model == "" || in.Year == 0 || in.LicensePlate == "" {
		return errs.Validation(errs.CodeVehicleInvalid,
			"All fields are required: customer_id, make, model, year, license_plate")
	}
	return nil
}

const vehicleColumns = `v.id, v.customer_id, v.make, v.model, v.year, v.license_plate, v.created_date`

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(&v.ID, &v.CustomerID, &v.Make, &v.Model, &v.Year, &v.LicensePlate, &v.CreatedDate)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func scanVehicleWithOwner(row rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := row.Scan(&v.ID, &v.CustomerID, &v.Make, &v.Model, &v.Year, &v.LicensePlate, &v.CreatedDate,
		&v.CustomerName, &v.CustomerPhone)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VehicleRepository) customerExists(ctx context.Context, customerID int64) (bool, error) {
	var one int
	err := r.store.FetchOne(ctx, `SELECT 1 FROM customers WHERE id = ?`, customerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// plateTakenBy returns the id of the vehicle holding the plate, or 0.
func (r *VehicleRepository) plateTakenBy(ctx context.Context, plate string) (int64, error) {
	var id int64
	err := r.store.FetchOne(ctx, `SELECT id FROM vehicles WHERE license_plate = ?`, plate).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func plateConflict() *errs.AppError {
	return errs.Conflict(errs.CodePlateExists, "Vehicle with this license plate already exists")
}

// Create inserts a new vehicle after resolving its owner and checking the
// plate is unused. The UNIQUE index backstops the plate check; a store
// violation from a concurrent insert maps to the same Conflict.
func (r *VehicleRepository) Create(ctx context.Context, in VehicleInput) (*domain.Vehicle, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	ok, err := r.customerExists(ctx, in.CustomerID)
	if err != nil {
		return nil, errs.Internal("Failed to create vehicle", err)
	}
	if !ok {
		return nil, errs.NotFound(errs.CodeCustomerNotFound, "Customer not found")
	}

	taken, err := r.plateTakenBy(ctx, in.LicensePlate)
	if err != nil {
		return nil, errs.Internal("Failed to create vehicle", err)
	}
	if taken != 0 {
		return nil, plateConflict()
	}

	res, err := r.store.Execute(ctx,
		`INSERT INTO vehicles (customer_id, make, model, year, license_plate) VALUES (?, ?, ?, ?, ?)`,
		in.CustomerID, in.Make, in.Model, in.Year, in.LicensePlate)
	if storage.IsUniqueViolation(err) {
		return nil, plateConflict()
	}
	if err != nil {
		return nil, errs.Internal("Failed to create vehicle", err)
	}
	return r.getPlain(ctx, res.LastInsertID)
}

// getPlain fetches a vehicle without owner context.
func (r *VehicleRepository) getPlain(ctx context.Context, id int64) (*domain.Vehicle, error) {
	row := r.store.FetchOne(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles v WHERE v.id = ?`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound(errs.CodeVehicleNotFound, "Vehicle not found")
	}
	if err != nil {
		return nil, errs.Internal("Failed to fetch vehicle", err)
	}
	return v, nil
}

// Get returns the vehicle joined with its owner's name, phone, and email.
func (r *VehicleRepository) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	row := r.store.FetchOne(ctx,
		`SELECT `+vehicleColumns+`, c.name, c.phone, c.email
		 FROM vehicles v
		 JOIN customers c ON v.customer_id = c.id
		 WHERE v.id = ?`, id)

	var v domain.Vehicle
	err := row.Scan(&v.ID, &v.CustomerID, &v.Make, &v.Model, &v.Year, &v.LicensePlate, &v.CreatedDate,
		&v.CustomerName, &v.CustomerPhone, &v.CustomerEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound(errs.CodeVehicleNotFound, "Vehicle not found")
	}
	if err != nil {
		return nil, errs.Internal("Failed to fetch vehicle", err)
	}
	return &v, nil
}

// List returns all vehicles joined with their owner's name and phone,
// most recently created first.
func (r *VehicleRepository) List(ctx context.Context) ([]*domain.Vehicle, error) {
	rows, err := r.store.FetchMany(ctx,
		`SELECT `+vehicleColumns+`, c.name, c.phone
		 FROM vehicles v
		 JOIN customers c ON v.customer_id = c.id
		 ORDER BY v.created_date DESC, v.id DESC`)
	if err != nil {
		return nil, errs.Internal("Failed to fetch vehicles", err)
	}
	defer rows.Close()
	return collectVehicles(rows, scanVehicleWithOwner, "Failed to fetch vehicles")
}

// ListByCustomer returns the customer's vehicles, most recent first.
func (r *VehicleRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Vehicle, error) {
	rows, err := r.store.FetchMany(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles v
		 WHERE v.customer_id = ?
		 ORDER BY v.created_date DESC, v.id DESC`, customerID)
	if err != nil {
		return nil, errs.Internal("Failed to fetch customer vehicles", err)
	}
	defer rows.Close()
	return collectVehicles(rows, scanVehicle, "Failed to fetch customer vehicles")
}

// Search returns vehicles whose make, model, license plate, or owner name
// contains the query, case-insensitively, joined with owner name/phone.
func (r *VehicleRepository) Search(ctx context.Context, query string) ([]*domain.Vehicle, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := r.store.FetchMany(ctx,
		`SELECT `+vehicleColumns+`, c.name, c.phone
		 FROM vehicles v
		 JOIN customers c ON v.customer_id = c.id
		 WHERE LOWER(v.make) LIKE ? OR LOWER(v.model) LIKE ? OR LOWER(v.license_plate) LIKE ? OR LOWER(c.name) LIKE ?
		 ORDER BY v.make, v.model`,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, errs.Internal("Failed to search vehicles", err)
	}
	defer rows.Close()
	return collectVehicles(rows, scanVehicleWithOwner, "Failed to search vehicles")
}

// Update full-replaces the vehicle's fields. The plate may stay on the
// same vehicle; colliding with a different vehicle's plate is a conflict.
func (r *VehicleRepository) Update(ctx context.Context, id int64, in VehicleInput) (*domain.Vehicle, error) {
	if _, err := r.getPlain(ctx, id); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	ok, err := r.customerExists(ctx, in.CustomerID)
	if err != nil {
		return nil, errs.Internal("Failed to update vehicle", err)
	}
	if !ok {
		return nil, errs.NotFound(errs.CodeCustomerNotFound, "Customer not found")
	}

	taken, err := r.plateTakenBy(ctx, in.LicensePlate)
	if err != nil {
		return nil, errs.Internal("Failed to update vehicle", err)
	}
	if taken != 0 && taken != id {
		return nil, plateConflict()
	}

	_, err = r.store.Execute(ctx,
		`UPDATE vehicles SET customer_id = ?, make = ?, model = ?, year = ?, license_plate = ? WHERE id = ?`,
		in.CustomerID, in.Make, in.Model, in.Year, in.LicensePlate, id)
	if storage.IsUniqueViolation(err) {
		return nil, plateConflict()
	}
	if err != nil {
		return nil, errs.Internal("Failed to update vehicle", err)
	}
	return r.getPlain(ctx, id)
}

// Delete removes a vehicle and returns the removed snapshot. A vehicle
// with dependent service records cannot be deleted.
func (r *VehicleRepository) Delete(ctx context.Context, id int64) (*domain.Vehicle, error) {
	existing, err := r.getPlain(ctx, id)
	if err != nil {
		return nil, err
	}

	var serviceCount int
	if err := r.store.FetchOne(ctx,
		`SELECT COUNT(*) FROM services WHERE vehicle_id = ?`, id).Scan(&serviceCount); err != nil {
		return nil, errs.Internal("Failed to delete vehicle", err)
	}
	if serviceCount > 0 {
		return nil, errs.Conflict(errs.CodeVehicleHasService, "Cannot delete vehicle with associated service records").
			WithParams(map[string]interface{}{"serviceCount": serviceCount})
	}

	if _, err := r.store.Execute(ctx, `DELETE FROM vehicles WHERE id = ?`, id); err != nil {
		return nil, errs.Internal("Failed to delete vehicle", err)
	}
	return existing, nil
}

// Stats returns the vehicle total, the per-make breakdown ordered by
// count descending, and the rounded mean model year (0 with no vehicles).
func (r *VehicleRepository) Stats(ctx context.Context) (*domain.VehicleStats, error) {
	var stats domain.VehicleStats
	if err := r.store.FetchOne(ctx,
		`SELECT COUNT(*) FROM vehicles`).Scan(&stats.TotalVehicles); err != nil {
		return nil, errs.Internal("Failed to fetch vehicle statistics", err)
	}

	rows, err := r.store.FetchMany(ctx,
		`SELECT make, COUNT(*) as count FROM vehicles GROUP BY make ORDER BY count DESC`)
	if err != nil {
		return nil, errs.Internal("Failed to fetch vehicle statistics", err)
	}
	defer rows.Close()

	stats.VehiclesByMake = []domain.MakeCount{}
	for rows.Next() {
		var mc domain.MakeCount
		if err := rows.Scan(&mc.Make, &mc.Count); err != nil {
			return nil, errs.Internal("Failed to fetch vehicle statistics", err)
		}
		stats.VehiclesByMake = append(stats.VehiclesByMake, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("Failed to fetch vehicle statistics", err)
	}

	var avgYear sql.NullFloat64
	if err := r.store.FetchOne(ctx,
		`SELECT AVG(year) FROM vehicles`).Scan(&avgYear); err != nil {
		return nil, errs.Internal("Failed to fetch vehicle statistics", err)
	}
	if avgYear.Valid {
		stats.AverageYear = int(math.Round(avgYear.Float64))
	}
	return &stats, nil
}

func collectVehicles(rows *sql.Rows, scan func(rowScanner) (*domain.Vehicle, error), failMsg string) ([]*domain.Vehicle, error) {
	vehicles := []*domain.Vehicle{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, errs.Internal(failMsg, err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(failMsg, err)
	}
	return vehicles, nil
}
