package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// EmployeeUseCase registro de empleados que firman conteos, aprobaciones y movimientos.
type EmployeeUseCase struct {
	repo repository.Store[*entity.Employee]
}

// NewEmployeeUseCase construye el caso de uso con el puerto de persistencia.
func NewEmployeeUseCase(repo repository.Store[*entity.Employee]) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo}
}

// Create registra un empleado activo. El código es único. Sin Password el empleado no puede iniciar sesión.
func (uc *EmployeeUseCase) Create(ctx context.Context, actor audit.Actor, in dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	code := strings.TrimSpace(in.Code)
	exists, err := uc.repo.Exists(ctx, audit.Where(repository.ColCode, code))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict
	}
	emp := &entity.Employee{
		Code:     code,
		FullName: strings.TrimSpace(in.FullName),
		Role:     in.Role,
		IsActive: true,
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		emp.PasswordHash = string(hash)
	}
	if err := uc.repo.Create(ctx, actor, emp); err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// GetByID obtiene un empleado.
func (uc *EmployeeUseCase) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	emp, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// GetByCode obtiene un empleado por su código interno.
func (uc *EmployeeUseCase) GetByCode(ctx context.Context, code string) (*dto.EmployeeResponse, error) {
	emp, err := uc.repo.FirstWhere(ctx, audit.Where(repository.ColCode, code))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

// SetActive activa o inactiva al empleado; un inactivo no puede firmar operaciones.
func (uc *EmployeeUseCase) SetActive(ctx context.Context, actor audit.Actor, id string, active bool) (*dto.EmployeeResponse, error) {
	emp, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	emp.IsActive = active
	if err := uc.repo.Update(ctx, actor, emp); err != nil {
		return nil, err
	}
	return toEmployeeResponse(emp), nil
}

func toEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	if e == nil {
		return nil
	}
	return &dto.EmployeeResponse{
		ID:        e.ID,
		Code:      e.Code,
		FullName:  e.FullName,
		Role:      e.Role,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
	}
}
