// CLAUDE:SUMMARY Sentinel errors for the per-gene acquisition pipeline.
package pipeline

import "errors"

// ErrExportNotFound is returned when no strategy locates the Export
// control and no observed network data can stand in for it.
var ErrExportNotFound = errors.New("pipeline: export control not found")

// ErrMSANotFound is returned when the MSA export option cannot be
// located in the export dropdown.
var ErrMSANotFound = errors.New("pipeline: msa option not found")

// ErrNoData is returned when no capture channel yields a payload.
var ErrNoData = errors.New("pipeline: no data resolvable by any channel")

// ErrRejected is returned when a resolved payload fails classification.
var ErrRejected = errors.New("pipeline: captured data rejected by classifier")
