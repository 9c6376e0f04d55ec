package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/grandauto/garage/internal/pkg/errors"
	"github.com/grandauto/garage/internal/repository"
)

func serviceBindError() *errs.AppError {
	return errs.Validation(errs.CodeServiceInvalid,
		"Required fields: vehicle_id, service_date, description, cost")
}

// CreateService handles POST /services.
func (s *Server) CreateService(c *gin.Context) {
	var in repository.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(serviceBindError())
		return
	}

	service, err := s.repos.Services.Create(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Service record created successfully",
		"service": service,
	})
}

// ListServices handles GET /services.
func (s *Server) ListServices(c *gin.Context) {
	services, err := s.repos.Services.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Services retrieved successfully",
		"services": services,
		"count":    len(services),
	})
}

// GetService handles GET /services/:id.
func (s *Server) GetService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeServiceNotFound, "Service record not found"))
		return
	}

	service, err := s.repos.Services.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service retrieved successfully",
		"service": service,
	})
}

// ListServicesByVehicle handles GET /services/vehicle/:vehicle_id.
func (s *Server) ListServicesByVehicle(c *gin.Context) {
	vehicleID, ok := idParam(c, "vehicle_id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeVehicleNotFound, "Vehicle not found"))
		return
	}

	services, err := s.repos.Services.ListByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Vehicle service history retrieved successfully",
		"services":   services,
		"count":      len(services),
		"vehicle_id": vehicleID,
	})
}

// ListServicesByCustomer handles GET /services/customer/:customer_id.
func (s *Server) ListServicesByCustomer(c *gin.Context) {
	customerID, ok := idParam(c, "customer_id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeCustomerNotFound, "Customer not found"))
		return
	}

	services, err := s.repos.Services.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Customer service history retrieved successfully",
		"services":    services,
		"count":       len(services),
		"customer_id": customerID,
	})
}

// UpdateService handles PUT /services/:id.
func (s *Server) UpdateService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeServiceNotFound, "Service record not found"))
		return
	}

	var in repository.ServiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(serviceBindError())
		return
	}

	service, err := s.repos.Services.Update(c.Request.Context(), id, in)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service record updated successfully",
		"service": service,
	})
}

// DeleteService handles DELETE /services/:id.
func (s *Server) DeleteService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeServiceNotFound, "Service record not found"))
		return
	}

	deleted, err := s.repos.Services.Delete(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Service record deleted successfully",
		"deletedService": deleted,
	})
}

// ServiceStats handles GET /services/stats/summary.
func (s *Server) ServiceStats(c *gin.Context) {
	stats, err := s.repos.Services.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service statistics retrieved successfully",
		"stats":   stats,
	})
}
