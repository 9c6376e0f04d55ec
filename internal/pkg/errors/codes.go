package errors

// Customer error codes.
const (
	CodeCustomerNotFound    = "CUSTOMER_NOT_FOUND"
	CodeCustomerInvalid     = "CUSTOMER_INVALID"
	CodeCustomerHasVehicles = "CUSTOMER_HAS_VEHICLES"
)

// Vehicle error codes.
const (
	CodeVehicleNotFound   = "VEHICLE_NOT_FOUND"
	CodeVehicleInvalid    = "VEHICLE_INVALID"
	CodePlateExists       = "LICENSE_PLATE_EXISTS"
	CodeVehicleHasService = "VEHICLE_HAS_SERVICES"
)

// Service error codes.
const (
	CodeServiceNotFound = "SERVICE_NOT_FOUND"
	CodeServiceInvalid  = "SERVICE_INVALID"
)

// CodeInternal is the generic code for unexpected store failures.
const CodeInternal = "INTERNAL_ERROR"
