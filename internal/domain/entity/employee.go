package entity

// Roles de empleado.
const (
	RoleAdmin      = "admin"
	RoleJefeTaller = "jefe_taller"
	RoleBodeguero  = "bodeguero"
)

// Employee empleado del taller; se usa para atribuir responsables en los flujos de inventario.
type Employee struct {
	ID           string
	Code         string
	FullName     string
	Role         string
	IsActive     bool
	PasswordHash string // bcrypt; vacío = no puede iniciar sesión
	Audit
}

// CanApprove solo administradores y jefes de taller aprueban o rechazan ajustes.
func (e *Employee) CanApprove() bool {
	return e.Role == RoleAdmin || e.Role == RoleJefeTaller
}

func (e *Employee) GetID() string       { return e.ID }
func (e *Employee) SetID(id string)     { e.ID = id }
func (e *Employee) AuditFields() *Audit { return &e.Audit }
