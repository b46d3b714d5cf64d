package models

import (
	"fmt"
	"time"
)

// MalformedLocationCodeError reports a location code that does not match
// the canonical grammar.
type MalformedLocationCodeError struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

func (e *MalformedLocationCodeError) Error() string {
	return fmt.Sprintf("malformed location code %q: %s", e.Code, e.Reason)
}

// RackNumberConflict is returned when a create or update would duplicate a
// (floor, rackNumber) pair inside one warehouse. Suggestions lists the
// lowest unused rack numbers on that floor.
type RackNumberConflict struct {
	Floor           Floor `json:"floor"`
	RackNumber      int   `json:"rack_number"`
	ConflictingRack Rack  `json:"conflicting_rack"`
	Suggestions     []int `json:"suggestions"`
}

func (e *RackNumberConflict) Error() string {
	return fmt.Sprintf("rack number %d already used on floor %s (rack %s), available: %v",
		e.RackNumber, e.Floor, e.ConflictingRack.ID, e.Suggestions)
}

// NonEmptyBinShrink is returned when a resize would delete bins that still
// hold stock. Bins lists every offending bin with its contents so the
// caller can relocate stock before retrying. No partial shrink is applied.
type NonEmptyBinShrink struct {
	RackID string       `json:"rack_id"`
	Bins   []BinContent `json:"bins"`
}

func (e *NonEmptyBinShrink) Error() string {
	return fmt.Sprintf("resize of rack %s would remove %d non-empty bin(s)", e.RackID, len(e.Bins))
}

// RackNotEmpty is returned when deletion is attempted on a rack with any
// occupied bin.
type RackNotEmpty struct {
	RackID string       `json:"rack_id"`
	Bins   []BinContent `json:"bins"`
}

func (e *RackNotEmpty) Error() string {
	return fmt.Sprintf("rack %s still holds stock in %d bin(s)", e.RackID, len(e.Bins))
}

// ContinuityIssue flags a replay anomaly for one (sku, bin) chain. It is a
// warning attached to report output, never a failure: anomalies indicate
// upstream data problems, not replay bugs.
type ContinuityIssue struct {
	SKU       string    `json:"sku"`
	BinID     string    `json:"bin_id"`
	BinCode   string    `json:"bin_code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
}

func (w ContinuityIssue) String() string {
	return fmt.Sprintf("sku %s bin %s at %s: %s", w.SKU, w.BinID, w.Timestamp.Format(time.RFC3339), w.Reason)
}
