// Package store defines the document-store port the warehouse core is
// given. Collections are addressed by Firestore-style paths
// ("warehouses", "warehouses/{id}/racks", ...); documents are plain
// structs with bson tags.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Filter is a flat equality filter: every key must match the stored field.
type Filter map[string]any

// OrderBy sorts a listing by one field.
type OrderBy struct {
	Field string
	Desc  bool
}

// Store is the persistence port. out arguments are decoded the same way
// the MongoDB driver decodes: Get takes a pointer to a struct, List a
// pointer to a slice of structs.
//
// Transaction runs fn atomically; all store calls inside fn must go
// through the tx handle and the context it receives. A non-nil error from
// fn aborts the whole transaction with no writes applied.
type Store interface {
	Get(ctx context.Context, collectionPath, id string, out any) error
	List(ctx context.Context, collectionPath string, filter Filter, orderBy *OrderBy, out any) error
	Create(ctx context.Context, collectionPath string, id string, doc any) error
	Update(ctx context.Context, collectionPath, id string, patch map[string]any) error
	Delete(ctx context.Context, collectionPath, id string) error
	Transaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

// Collection path helpers. Racks, bins and operation history live under
// their warehouse.

func WarehousesPath() string {
	return "warehouses"
}

func RacksPath(warehouseID string) string {
	return fmt.Sprintf("warehouses/%s/racks", warehouseID)
}

func BinsPath(warehouseID string) string {
	return fmt.Sprintf("warehouses/%s/bins", warehouseID)
}

func OperationHistoryPath(warehouseID string) string {
	return fmt.Sprintf("warehouses/%s/operationHistory", warehouseID)
}
