package dto

import "time"

// CreateEmployeeRequest entrada para registrar un empleado del taller.
type CreateEmployeeRequest struct {
	Code     string `json:"code" validate:"required,min=1,max=50"`
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin jefe_taller bodeguero"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}

// EmployeeResponse salida de un empleado.
type EmployeeResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
