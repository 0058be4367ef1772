package share

import "github.com/tveten/parsat/internal/sat"

// Endpoint is one worker's private view of a Fabric: it implements
// sat.SharingEndpoint so a Solver can export and import without knowing
// anything about rings, pairs, or other workers.
type Endpoint struct {
	fabric *Fabric
	id     int

	maxLBDExchange   uint32
	exportPolicy     sat.ExportPolicy
	legacyMaxClauses int

	conflictsSinceTune uint64
}

// NewEndpoint returns the sharing endpoint for worker id within fabric,
// applying opt's export policy when filtering outgoing clauses.
func NewEndpoint(fabric *Fabric, id int, opt *sat.Options) *Endpoint {
	return &Endpoint{
		fabric:           fabric,
		id:               id,
		maxLBDExchange:   uint32(opt.MaxLBDExchange),
		exportPolicy:     opt.ExportPolicy,
		legacyMaxClauses: MaxImportClauses,
	}
}

// ExportUnits implements sat.SharingEndpoint.
func (e *Endpoint) ExportUnits(units []sat.Literal) {
	if len(units) == 0 {
		return
	}
	e.fabric.ExportUnits(e.id, units)
}

// ExportClause implements sat.SharingEndpoint. Clauses above the configured
// LBD exchange bound are never offered, regardless of export policy.
func (e *Endpoint) ExportClause(literals []sat.Literal, lbd uint32) {
	if lbd > e.maxLBDExchange {
		return
	}
	e.fabric.ExportClause(e.id, literals, lbd, e.exportPolicy == sat.ExportLegacy)
}

// ImportUnits implements sat.SharingEndpoint.
func (e *Endpoint) ImportUnits() []sat.Literal {
	return e.fabric.ImportUnits(e.id)
}

// ImportClauses implements sat.SharingEndpoint. Every
// LimitConflictsEval-conflicts worth of imports, the pairwise export limits
// this worker advertises to its producers are retuned.
func (e *Endpoint) ImportClauses() []sat.ImportedClause {
	e.conflictsSinceTune++
	if e.conflictsSinceTune >= LimitConflictsEval {
		e.conflictsSinceTune = 0
		e.fabric.TuneExportLimits(e.id)
	}
	return e.fabric.ImportClauses(e.id)
}

// SetAnswer implements sat.SharingEndpoint.
func (e *Endpoint) SetAnswer(r sat.LBool) {
	e.fabric.SetAnswer(e.id, r)
}

// Answer implements sat.SharingEndpoint.
func (e *Endpoint) Answer() sat.LBool {
	return e.fabric.Answer(e.id)
}

// AsyncStop implements sat.SharingEndpoint.
func (e *Endpoint) AsyncStop() bool {
	return e.fabric.AsyncStop()
}

var _ sat.SharingEndpoint = (*Endpoint)(nil)
