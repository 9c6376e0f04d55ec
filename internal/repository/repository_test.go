package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grandauto/garage/internal/domain"
	"github.com/grandauto/garage/internal/storage"
)

// newTestRepos opens an isolated store per test run.
func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "garage-test.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store)
}

func strPtr(s string) *string { return &s }

func seedCustomer(t *testing.T, repos *Repositories, name, phone string) *domain.Customer {
	t.Helper()
	c, err := repos.Customers.Create(context.Background(), CustomerInput{Name: name, Phone: phone})
	require.NoError(t, err)
	return c
}

func seedVehicle(t *testing.T, repos *Repositories, customerID int64, make, model string, year int, plate string) *domain.Vehicle {
	t.Helper()
	v, err := repos.Vehicles.Create(context.Background(), VehicleInput{
		CustomerID:   customerID,
		Make:         make,
		Model:        model,
		Year:         year,
		LicensePlate: plate,
	})
	require.NoError(t, err)
	return v
}

func seedService(t *testing.T, repos *Repositories, vehicleID int64, date, desc string, cost float64) *domain.Service {
	t.Helper()
	s, err := repos.Services.Create(context.Background(), ServiceInput{
		VehicleID:   vehicleID,
		ServiceDate: date,
		Description: desc,
		Cost:        cost,
	})
	require.NoError(t, err)
	return s
}
