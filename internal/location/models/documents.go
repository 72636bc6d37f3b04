package models

import (
	"maps"

	dErrors "practiceadmin/pkg/domain-errors"
)

// Documents tracks which diligence documents have been collected.
type Documents map[string]bool

// DocumentNames is the checklist in display order.
var DocumentNames = []string{
	"confidentialityAgreement",
	"preliminaryInfoPackage",
	"financialStatements",
	"taxReturns",
	"productionReports",
	"accountsReceivable",
	"revenueBreakdown",
	"payrollRecords",
	"debtSchedule",
	"patientVolumeStats",
	"patientDemographics",
	"feeSchedules",
	"equipmentInventory",
	"officeManuals",
	"technologySystems",
}

var knownDocuments = func() map[string]struct{} {
	m := make(map[string]struct{}, len(DocumentNames))
	for _, n := range DocumentNames {
		m[n] = struct{}{}
	}
	return m
}()

// IsKnownDocument reports whether name is on the checklist.
func IsKnownDocument(name string) bool {
	_, ok := knownDocuments[name]
	return ok
}

// DefaultDocuments returns the checklist with nothing collected.
func DefaultDocuments() Documents {
	d := make(Documents, len(DocumentNames))
	for _, n := range DocumentNames {
		d[n] = false
	}
	return d
}

// Merge overlays other onto d and returns d.
func (d Documents) Merge(other Documents) Documents {
	if d == nil {
		d = Documents{}
	}
	maps.Copy(d, other)
	return d
}

// Clone copies the map; a nil map stays nil.
func (d Documents) Clone() Documents {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// Toggle flips one entry.
func (d Documents) Toggle(name string) error {
	if !IsKnownDocument(name) {
		return dErrors.New(dErrors.CodeValidation, "unknown document "+name)
	}
	d[name] = !d[name]
	return nil
}

// Collected counts the documents marked as received.
func (d Documents) Collected() int {
	n := 0
	for _, v := range d {
		if v {
			n++
		}
	}
	return n
}

// Validate rejects names outside the checklist.
func (d Documents) Validate() error {
	for name := range d {
		if !IsKnownDocument(name) {
			return dErrors.New(dErrors.CodeValidation, "unknown document "+name)
		}
	}
	return nil
}
