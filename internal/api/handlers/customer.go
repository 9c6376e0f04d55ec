package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/grandauto/garage/internal/pkg/errors"
	"github.com/grandauto/garage/internal/repository"
)

// CreateCustomer handles POST /customers.
func (s *Server) CreateCustomer(c *gin.Context) {
	var in repository.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(errs.Validation(errs.CodeCustomerInvalid, "Name and phone are required"))
		return
	}

	customer, err := s.repos.Customers.Create(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Customer created successfully",
		"customer": customer,
	})
}

// ListCustomers handles GET /customers.
func (s *Server) ListCustomers(c *gin.Context) {
	customers, err := s.repos.Customers.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Customers retrieved successfully",
		"customers": customers,
		"count":     len(customers),
	})
}

// GetCustomer handles GET /customers/:id.
func (s *Server) GetCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeCustomerNotFound, "Customer not found"))
		return
	}

	customer, err := s.repos.Customers.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Customer retrieved successfully",
		"customer": customer,
	})
}

// UpdateCustomer handles PUT /customers/:id.
func (s *Server) UpdateCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeCustomerNotFound, "Customer not found"))
		return
	}

	var in repository.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(errs.Validation(errs.CodeCustomerInvalid, "Name and phone are required"))
		return
	}

	customer, err := s.repos.Customers.Update(c.Request.Context(), id, in)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Customer updated successfully",
		"customer": customer,
	})
}

// DeleteCustomer handles DELETE /customers/:id.
func (s *Server) DeleteCustomer(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeCustomerNotFound, "Customer not found"))
		return
	}

	deleted, err := s.repos.Customers.Delete(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Customer deleted successfully",
		"deletedCustomer": deleted,
	})
}

// SearchCustomers handles GET /customers/search/:query.
func (s *Server) SearchCustomers(c *gin.Context) {
	query := c.Param("query")

	customers, err := s.repos.Customers.Search(c.Request.Context(), query)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Customer search completed successfully",
		"customers":   customers,
		"count":       len(customers),
		"searchQuery": query,
	})
}

// CustomerStats handles GET /customers/stats/summary.
func (s *Server) CustomerStats(c *gin.Context) {
	stats, err := s.repos.Customers.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer statistics retrieved successfully",
		"stats":   stats,
	})
}
