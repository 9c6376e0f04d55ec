// Package repository implements the entity repositories on top of the
// storage gateway: per-entity CRUD plus the relationship-aware queries
// (joins, search, aggregation) and the referential-integrity guards.
//
// Every operation returns either a value or an *errors.AppError describing
// the outcome kind; the HTTP layer maps kinds to status codes.
package repository

import (
	"github.com/grandauto/garage/internal/storage"
)

// Repositories bundles the three entity repositories sharing one store.
type Repositories struct {
	Customers *CustomerRepository
	Vehicles  *VehicleRepository
	Services  *ServiceRepository
}

// New wires all repositories to the given storage gateway.
func New(store *storage.Store) *Repositories {
	return &Repositories{
		Customers: NewCustomerRepository(store),
		Vehicles:  NewVehicleRepository(store),
		Services:  NewServiceRepository(store),
	}
}

// rowScanner lets scan helpers work over both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
