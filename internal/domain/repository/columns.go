package repository

// Columnas filtrables/ordenables. Los backends mapean estos nombres a campos.
const (
	ColID         = "id"
	ColCreatedAt  = "created_at"
	ColPartNumber = "part_number"
	ColPartID     = "part_id"
	ColCode       = "code"
	ColStatus     = "status"

	ColCheckID      = "check_id"
	ColAdjustmentID = "adjustment_id"
	ColNumber       = "adjustment_number"

	ColTransactionCode = "transaction_code"
	ColReferenceType   = "reference_type"
	ColReferenceID     = "reference_id"

	ColParentType = "parent_type"
	ColParentID   = "parent_id"
)
