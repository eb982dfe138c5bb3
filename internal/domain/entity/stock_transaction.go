package entity

import "time"

// Tipos de transacción del libro de stock.
const (
	TransactionTypeAdjustment = "ADJUSTMENT" // ajuste aprobado
	TransactionTypeInbound    = "INBOUND"    // entrada
	TransactionTypeOutbound   = "OUTBOUND"   // salida
	TransactionTypeWriteOff   = "WRITE_OFF"  // baja
)

// Tipos de documento que originan una transacción.
const (
	ReferenceTypeAdjustment = "INVENTORY_ADJUSTMENT"
	ReferenceTypeMovement   = "MOVEMENT"
)

// StockTransaction fila inmutable del libro de stock. Nunca se actualiza ni se elimina.
type StockTransaction struct {
	ID                    string
	TransactionCode       string // ST-YYYYMMDD-NNNN
	PartID                string
	Quantity              int // delta firmado
	QuantityAfter         int // existencia resultante
	TransactionType       string
	ReferenceType         string
	ReferenceID           string
	ProcessedByEmployeeID string
	Notes                 string
	TransactionDate       time.Time
	Audit
}

func (t *StockTransaction) GetID() string       { return t.ID }
func (t *StockTransaction) SetID(id string)     { t.ID = id }
func (t *StockTransaction) AuditFields() *Audit { return &t.Audit }

// IsValidTransactionType indica si el tipo es conocido.
func IsValidTransactionType(t string) bool {
	switch t {
	case TransactionTypeAdjustment, TransactionTypeInbound, TransactionTypeOutbound, TransactionTypeWriteOff:
		return true
	}
	return false
}
