package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/grandauto/garage/internal/domain"
	errs "github.com/grandauto/garage/internal/pkg/errors"
	"github.com/grandauto/garage/internal/storage"
)

// CustomerRepository manages customer records and the delete guard against
// their dependent vehicles.
type CustomerRepository struct {
	store *storage.Store
}

// NewCustomerRepository creates a customer repository on the given store.
func NewCustomerRepository(store *storage.Store) *CustomerRepository {
	return &CustomerRepository{store: store}
}

// CustomerInput carries the mutable customer fields. Email and address are
// optional; name and phone are required.
type CustomerInput struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

func (in CustomerInput) validate() *errs.AppError {
	if in.Name == "" || in.Phone == "" {
		return errs.Validation(errs.CodeCustomerInvalid, "Name and phone are required")
	}
	return nil
}

const customerColumns = `id, name, phone, email, address, created_date`

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedDate)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer and returns the stored record with its
// system-assigned id and timestamp.
func (r *CustomerRepository) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	res, err := r.store.Execute(ctx,
		`INSERT INTO customers (name, phone, email, address) VALUES (?, ?, ?, ?)`,
		in.Name, in.Phone, in.Email, in.Address)
	if err != nil {
		return nil, errs.Internal("Failed to create customer", err)
	}
	return r.Get(ctx, res.LastInsertID)
}

// Get returns the customer with the given id.
func (r *CustomerRepository) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	row := r.store.FetchOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ?`, id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound(errs.CodeCustomerNotFound, "Customer not found")
	}
	if err != nil {
		return nil, errs.Internal("Failed to fetch customer", err)
	}
	return c, nil
}

// List returns all customers, most recently created first.
func (r *CustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.store.FetchMany(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_date DESC, id DESC`)
	if err != nil {
		return nil, errs.Internal("Failed to fetch customers", err)
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, errs.Internal("Failed to fetch customers", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("Failed to fetch customers", err)
	}
	return customers, nil
}

// Update full-replaces the four mutable fields of an existing customer.
func (r *CustomerRepository) Update(ctx context.Context, id int64, in CustomerInput) (*domain.Customer, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	_, err := r.store.Execute(ctx,
		`UPDATE customers SET name = ?, phone = ?, email = ?, address = ? WHERE id = ?`,
		in.Name, in.Phone, in.Email, in.Address, id)
	if err != nil {
		return nil, errs.Internal("Failed to update customer", err)
	}
	return r.Get(ctx, id)
}

// Delete removes a customer and returns the removed snapshot. A customer
// with dependent vehicles cannot be deleted; the guard runs as a count
// read immediately before the delete statement.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) (*domain.Customer, error) {
	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var vehicleCount int
	if err := r.store.FetchOne(ctx,
		`SELECT COUNT(*) FROM vehicles WHERE customer_id = ?`, id).Scan(&vehicleCount); err != nil {
		return nil, errs.Internal("Failed to delete customer", err)
	}
	if vehicleCount > 0 {
		return nil, errs.Conflict(errs.CodeCustomerHasVehicles, "Cannot delete customer with associated vehicles").
			WithParams(map[string]interface{}{"vehicleCount": vehicleCount})
	}

	if _, err := r.store.Execute(ctx, `DELETE FROM customers WHERE id = ?`, id); err != nil {
		return nil, errs.Internal("Failed to delete customer", err)
	}
	return existing, nil
}

// Search returns customers whose name, phone, or email contains the query,
// case-insensitively. An unmatched query yields an empty list, not an error.
func (r *CustomerRepository) Search(ctx context.Context, query string) ([]*domain.Customer, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := r.store.FetchMany(ctx,
		`SELECT `+customerColumns+` FROM customers
		 WHERE LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(email) LIKE ?
		 ORDER BY name`,
		pattern, pattern, pattern)
	if err != nil {
		return nil, errs.Internal("Failed to search customers", err)
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, errs.Internal("Failed to search customers", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal("Failed to search customers", err)
	}
	return customers, nil
}

// Stats returns the customer totals and the derived complement so the two
// counts always add up to the total.
func (r *CustomerRepository) Stats(ctx context.Context) (*domain.CustomerStats, error) {
	var stats domain.CustomerStats
	if err := r.store.FetchOne(ctx,
		`SELECT COUNT(*) FROM customers`).Scan(&stats.TotalCustomers); err != nil {
		return nil, errs.Internal("Failed to fetch customer statistics", err)
	}
	if err := r.store.FetchOne(ctx,
		`SELECT COUNT(DISTINCT customer_id) FROM vehicles`).Scan(&stats.CustomersWithVehicles); err != nil {
		return nil, errs.Internal("Failed to fetch customer statistics", err)
	}
	stats.CustomersWithoutVehicles = stats.TotalCustomers - stats.CustomersWithVehicles
	return &stats, nil
}
