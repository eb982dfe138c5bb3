package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/audit"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
	"github.com/jhoicas/Taller-api/pkg/metrics"
)

// Prefijos de documentos con código legible.
const (
	PrefixInventoryCheck   = "IK"
	PrefixAdjustment       = "ADJ"
	PrefixStockTransaction = "ST"
)

const dayLayout = "20060102"

// Config ancho del sufijo y reintentos.
type Config struct {
	DefaultWidth int
	Widths       map[string]int // ancho por prefijo; si falta se usa DefaultWidth
	MaxAttempts  int
	Location     *time.Location // zona en la que se calcula el día del código; nil = UTC
}

// DefaultConfig sufijo de 4 dígitos, 5 intentos y día en UTC.
func DefaultConfig() Config {
	return Config{DefaultWidth: 4, MaxAttempts: 5, Location: time.UTC}
}

// ExistsFunc indica si un código ya está tomado (incluye registros eliminados).
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator produce códigos {PREFIX}-{YYYYMMDD}-{NNNN} únicos y crecientes por prefijo y día.
//
// El número sale de un contador atómico (SequenceRepository.Next) que vive en la transacción
// del llamador, así que dos transacciones concurrentes nunca obtienen el mismo valor.
// Si el candidato ya existe (filas escritas sin pasar por el contador) se avanza el contador
// hasta MaxAttempts veces antes de fallar con domain.ErrConflict.
type Generator struct {
	cfg Config
}

// NewGenerator construye el generador.
func NewGenerator(cfg Config) *Generator {
	if cfg.DefaultWidth <= 0 {
		cfg.DefaultWidth = 4
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Generator{cfg: cfg}
}

// Width ancho configurado para el prefijo.
func (g *Generator) Width(prefix string) int {
	if w, ok := g.cfg.Widths[prefix]; ok && w > 0 {
		return w
	}
	return g.cfg.DefaultWidth
}

// NextCode reserva el siguiente código para prefix en la fecha date.
// El día se toma en la zona configurada, no en la de date.
func (g *Generator) NextCode(ctx context.Context, seq repository.SequenceRepository, exists ExistsFunc, prefix string, date time.Time) (string, error) {
	if prefix == "" {
		return "", domain.Validationf("prefijo de secuencia vacío")
	}
	date = date.In(g.cfg.Location)
	day := date.Format(dayLayout)
	width := g.Width(prefix)
	for attempt := 0; attempt < g.cfg.MaxAttempts; attempt++ {
		n, err := seq.Next(ctx, prefix, day)
		if err != nil {
			return "", fmt.Errorf("secuencia %s/%s: %w", prefix, day, err)
		}
		code := Format(prefix, date, n, width)
		if exists == nil {
			return code, nil
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
		metrics.SequenceCollisions.WithLabelValues(prefix).Inc()
	}
	return "", fmt.Errorf("%w: no se pudo reservar un código %s-%s tras %d intentos",
		domain.ErrConflict, prefix, day, g.cfg.MaxAttempts)
}

// Format arma el código con el sufijo rellenado con ceros.
func Format(prefix string, date time.Time, n, width int) string {
	return fmt.Sprintf("%s-%s-%0*d", prefix, date.Format(dayLayout), width, n)
}

// CodeExists adapta un repositorio a ExistsFunc sobre la columna indicada.
func CodeExists[T entity.Auditable](r repository.Reader[T], column string) ExistsFunc {
	return func(ctx context.Context, code string) (bool, error) {
		return r.Exists(ctx, audit.Where(column, code))
	}
}
