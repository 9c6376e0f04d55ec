package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/grandauto/garage/internal/pkg/errors"
	"github.com/grandauto/garage/internal/repository"
)

func vehicleBindError() *errs.AppError {
	return errs.Validation(errs.CodeVehicleInvalid,
		"All fields are required: customer_id, make, model, year, license_plate")
}

// CreateVehicle handles POST /vehicles.
func (s *Server) CreateVehicle(c *gin.Context) {
	var in repository.VehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(vehicleBindError())
		return
	}

	vehicle, err := s.repos.Vehicles.Create(c.Request.Context(), in)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Vehicle created successfully",
		"vehicle": vehicle,
	})
}

// ListVehicles handles GET /vehicles.
func (s *Server) ListVehicles(c *gin.Context) {
	vehicles, err := s.repos.Vehicles.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Vehicles retrieved successfully",
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

// GetVehicle handles GET /vehicles/:id.
func (s *Server) GetVehicle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeVehicleNotFound, "Vehicle not found"))
		return
	}

	vehicle, err := s.repos.Vehicles.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle retrieved successfully",
		"vehicle": vehicle,
	})
}

// ListVehiclesByCustomer handles GET /vehicles/customer/:customer_id.
func (s *Server) ListVehiclesByCustomer(c *gin.Context) {
	customerID, ok := idParam(c, "customer_id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeCustomerNotFound, "Customer not found"))
		return
	}

	vehicles, err := s.repos.Vehicles.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Customer vehicles retrieved successfully",
		"vehicles":    vehicles,
		"count":       len(vehicles),
		"customer_id": customerID,
	})
}

// SearchVehicles handles GET /vehicles/search/:query.
func (s *Server) SearchVehicles(c *gin.Context) {
	query := c.Param("query")

	vehicles, err := s.repos.Vehicles.Search(c.Request.Context(), query)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Vehicle search completed successfully",
		"vehicles":    vehicles,
		"count":       len(vehicles),
		"searchQuery": query,
	})
}

// UpdateVehicle handles PUT /vehicles/:id.
func (s *Server) UpdateVehicle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeVehicleNotFound, "Vehicle not found"))
		return
	}

	var in repository.VehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.Error(vehicleBindError())
		return
	}

	vehicle, err := s.repos.Vehicles.Update(c.Request.Context(), id, in)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle updated successfully",
		"vehicle": vehicle,
	})
}

// DeleteVehicle handles DELETE /vehicles/:id.
func (s *Server) DeleteVehicle(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		c.Error(errs.NotFound(errs.CodeVehicleNotFound, "Vehicle not found"))
		return
	}

	deleted, err := s.repos.Vehicles.Delete(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Vehicle deleted successfully",
		"deletedVehicle": deleted,
	})
}

// VehicleStats handles GET /vehicles/stats/summary.
func (s *Server) VehicleStats(c *gin.Context) {
	stats, err := s.repos.Vehicles.Stats(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vehicle statistics retrieved successfully",
		"stats":   stats,
	})
}
