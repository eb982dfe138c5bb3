package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// requireEmployee valida que el empleado exista y esté activo.
func requireEmployee(ctx context.Context, repos repository.Repos, employeeID string) (*entity.Employee, error) {
	if employeeID == "" {
		return nil, domain.Validationf("employee_id requerido")
	}
	emp, err := repos.Employees().GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("empleado %s: %w", employeeID, domain.ErrNotFound)
		}
		return nil, err
	}
	if !emp.IsActive {
		return nil, domain.Validationf("el empleado %s está inactivo", employeeID)
	}
	return emp, nil
}

// requireApprover como requireEmployee, y además exige un rol que pueda aprobar ajustes.
func requireApprover(ctx context.Context, repos repository.Repos, employeeID string) (*entity.Employee, error) {
	emp, err := requireEmployee(ctx, repos, employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.CanApprove() {
		return nil, fmt.Errorf("%w: el empleado %s (%s) no puede aprobar ajustes", domain.ErrForbidden, emp.Code, emp.Role)
	}
	return emp, nil
}

// requirePart valida que el repuesto referenciado exista y no esté eliminado.
func requirePart(ctx context.Context, repos repository.Repos, partID string) (*entity.Part, error) {
	if partID == "" {
		return nil, domain.Validationf("part_id requerido")
	}
	part, err := repos.Parts().GetByID(ctx, partID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Validationf("el repuesto %s no existe", partID)
		}
		return nil, err
	}
	return part, nil
}

func ptr[T any](v T) *T { return &v }
