package polycut

import (
	"fmt"
	"log"
	"sync"
)

// Record-level errors are collected in a Report and never abort the batch.
// Run-level errors (bad configuration, CrsMismatchError) are returned from
// Run and terminate the process with a non-zero status.

// UnsupportedGeometryError marks a record whose geometry kind cannot be
// decomposed into cutting lines (points and multipoints).
type UnsupportedGeometryError struct {
	ID   int64
	Kind string
}

func (e *UnsupportedGeometryError) Error() string {
	return fmt.Sprintf("record %d: unsupported geometry type %s, expected polygon or line", e.ID, e.Kind)
}

// UnrepairableGeometryError marks a record whose geometry stayed invalid
// after repair.
type UnrepairableGeometryError struct {
	ID     int64
	Reason string
}

func (e *UnrepairableGeometryError) Error() string {
	return fmt.Sprintf("record %d: geometry could not be repaired: %s", e.ID, e.Reason)
}

// DegeneratePolygonizationError marks a building whose cut produced no
// faces, or faces that do not add up to the input area. The building keeps
// its original geometry and is reported instead of lost.
type DegeneratePolygonizationError struct {
	BuildingID int64
	Faces      int
	Reason     string
}

func (e *DegeneratePolygonizationError) Error() string {
	return fmt.Sprintf("building %d: polygonization produced %d usable faces: %s", e.BuildingID, e.Faces, e.Reason)
}

// CrsMismatchError is fatal for the whole run: an input collection carries
// no declared reference and no default is configured.
type CrsMismatchError struct {
	Collection string
}

func (e *CrsMismatchError) Error() string {
	return fmt.Sprintf("input %q has no declared coordinate reference and no default is configured", e.Collection)
}

// Report aggregates record-level errors for one run. Safe for concurrent
// use during the parallel cutting phase.
type Report struct {
	mu     sync.Mutex
	Errors []error
}

func NewReport() *Report {
	return &Report{}
}

func (r *Report) Add(err error) {
	r.mu.Lock()
	r.Errors = append(r.Errors, err)
	r.mu.Unlock()
}

func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Errors)
}

// Log prints every collected error, one line each.
func (r *Report) Log() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, err := range r.Errors {
		log.Println(err)
	}
}
