package models

import (
	"net/mail"
	"slices"
	"strings"
	"time"

	"practiceadmin/internal/tableview"
	dErrors "practiceadmin/pkg/domain-errors"
)

// Key is the identity of a location. It is immutable once the record exists.
type Key struct {
	City  string `json:"city"`
	State string `json:"state"`
}

func (k Key) String() string {
	return k.City + ", " + k.State
}

// NewKey trims both parts and rejects blanks.
func NewKey(city, state string) (Key, error) {
	k := Key{City: strings.TrimSpace(city), State: strings.TrimSpace(state)}
	if k.City == "" || k.State == "" {
		return Key{}, dErrors.New(dErrors.CodeValidation, "city and state are required")
	}
	return k, nil
}

// Location is an acquisition / deal record for one practice.
// Money fields are in thousands of dollars, percentages are whole numbers.
type Location struct {
	OfficeName           string    `json:"officeName" yaml:"officeName"`
	City                 string    `json:"city" yaml:"city"`
	State                string    `json:"state" yaml:"state"`
	Market               string    `json:"market" yaml:"market"`
	Lead                 string    `json:"lead" yaml:"lead"`
	Source               string    `json:"source" yaml:"source"`
	Revenue              float64   `json:"revenue" yaml:"revenue"`
	EBITDA               float64   `json:"ebitda" yaml:"ebitda"`
	EBITDAPercentage     float64   `json:"ebitdaPercentage" yaml:"ebitdaPercentage"`
	RevenuePerProvider   float64   `json:"revenuePerProvider" yaml:"revenuePerProvider"`
	EV                   float64   `json:"ev" yaml:"ev"`
	RevenueMultiple      float64   `json:"revenueMultiple" yaml:"revenueMultiple"`
	EBITDAMultiple       float64   `json:"ebitdaMultiple" yaml:"ebitdaMultiple"`
	EquityRollPercentage float64   `json:"equityRollPercentage" yaml:"equityRollPercentage"`
	CashAtClose          float64   `json:"cashAtClose" yaml:"cashAtClose"`
	DebtDrawAmount       float64   `json:"debtDrawAmount" yaml:"debtDrawAmount"`
	CloseDate            string    `json:"closeDate" yaml:"closeDate"`
	IntegrationBurden    string    `json:"integrationBurden" yaml:"integrationBurden"`
	OtherKeyDealTerms    string    `json:"otherKeyDealTerms" yaml:"otherKeyDealTerms"`
	NotesStatus          string    `json:"notesStatus" yaml:"notesStatus"`
	DatePassedDead       string    `json:"datePassedDead" yaml:"datePassedDead"`
	Type                 string    `json:"type" yaml:"type"`
	Reason               string    `json:"reason" yaml:"reason"`
	Logo                 string    `json:"logo" yaml:"logo"`
	ManagerName          string    `json:"managerName" yaml:"managerName"`
	ManagerPhone         string    `json:"managerPhone" yaml:"managerPhone"`
	ManagerEmail         string    `json:"managerEmail" yaml:"managerEmail"`
	Documents            Documents `json:"documents" yaml:"documents"`
}

// Key returns the location's identity.
func (l *Location) Key() Key {
	return Key{City: l.City, State: l.State}
}

// Clone returns a deep copy so stores never share the documents map.
func (l *Location) Clone() *Location {
	if l == nil {
		return nil
	}
	c := *l
	c.Documents = l.Documents.Clone()
	return &c
}

// Normalize trims text fields and fills the documents checklist.
func (l *Location) Normalize() {
	for _, p := range []*string{
		&l.OfficeName, &l.City, &l.State, &l.Market, &l.Lead, &l.Source,
		&l.CloseDate, &l.IntegrationBurden, &l.OtherKeyDealTerms, &l.NotesStatus,
		&l.DatePassedDead, &l.Type, &l.Reason, &l.Logo,
		&l.ManagerName, &l.ManagerPhone, &l.ManagerEmail,
	} {
		*p = strings.TrimSpace(*p)
	}
	l.Documents = DefaultDocuments().Merge(l.Documents)
}

// Validate checks the record invariants.
func (l *Location) Validate() error {
	if _, err := NewKey(l.City, l.State); err != nil {
		return err
	}
	if l.ManagerEmail != "" {
		if _, err := mail.ParseAddress(l.ManagerEmail); err != nil {
			return dErrors.New(dErrors.CodeValidation, "managerEmail is not a valid email address")
		}
	}
	for name, v := range map[string]string{"closeDate": l.CloseDate, "datePassedDead": l.DatePassedDead} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return dErrors.New(dErrors.CodeValidation, name+" must be a YYYY-MM-DD date")
		}
	}
	if err := l.Documents.Validate(); err != nil {
		return err
	}
	return nil
}

// Field names exposed to sorting, searching and grouping, in form order.
// The documents checklist is deliberately absent.
var fieldNames = []string{
	"officeName", "city", "state", "market", "lead", "source",
	"revenue", "ebitda", "ebitdaPercentage", "revenuePerProvider", "ev",
	"revenueMultiple", "ebitdaMultiple", "equityRollPercentage",
	"cashAtClose", "debtDrawAmount", "closeDate", "integrationBurden",
	"otherKeyDealTerms", "notesStatus", "datePassedDead", "type", "reason",
	"logo", "managerName", "managerPhone", "managerEmail",
}

// FieldNames lists the location table columns.
func FieldNames() []string {
	return append([]string(nil), fieldNames...)
}

// Fields implements tableview.Record.
func (l *Location) Fields() []string {
	return fieldNames
}

// Lookup implements tableview.Record.
func (l *Location) Lookup(field string) (tableview.Value, bool) {
	switch field {
	case "officeName":
		return tableview.String(l.OfficeName), true
	case "city":
		return tableview.String(l.City), true
	case "state":
		return tableview.String(l.State), true
	case "market":
		return tableview.String(l.Market), true
	case "lead":
		return tableview.String(l.Lead), true
	case "source":
		return tableview.String(l.Source), true
	case "revenue":
		return tableview.Number(l.Revenue), true
	case "ebitda":
		return tableview.Number(l.EBITDA), true
	case "ebitdaPercentage":
		return tableview.Number(l.EBITDAPercentage), true
	case "revenuePerProvider":
		return tableview.Number(l.RevenuePerProvider), true
	case "ev":
		return tableview.Number(l.EV), true
	case "revenueMultiple":
		return tableview.Number(l.RevenueMultiple), true
	case "ebitdaMultiple":
		return tableview.Number(l.EBITDAMultiple), true
	case "equityRollPercentage":
		return tableview.Number(l.EquityRollPercentage), true
	case "cashAtClose":
		return tableview.Number(l.CashAtClose), true
	case "debtDrawAmount":
		return tableview.Number(l.DebtDrawAmount), true
	case "closeDate":
		return tableview.String(l.CloseDate), true
	case "integrationBurden":
		return tableview.String(l.IntegrationBurden), true
	case "otherKeyDealTerms":
		return tableview.String(l.OtherKeyDealTerms), true
	case "notesStatus":
		return tableview.String(l.NotesStatus), true
	case "datePassedDead":
		return tableview.String(l.DatePassedDead), true
	case "type":
		return tableview.String(l.Type), true
	case "reason":
		return tableview.String(l.Reason), true
	case "logo":
		return tableview.String(l.Logo), true
	case "managerName":
		return tableview.String(l.ManagerName), true
	case "managerPhone":
		return tableview.String(l.ManagerPhone), true
	case "managerEmail":
		return tableview.String(l.ManagerEmail), true
	default:
		return tableview.Value{}, false
	}
}

// Group keys offered by the locations table.
const (
	GroupByType        tableview.GroupKey = "type"
	GroupByState       tableview.GroupKey = "state"
	GroupByNotesStatus tableview.GroupKey = "notesStatus"
)

// GroupKeys lists the accepted group-by options, NoGrouping first.
var GroupKeys = []tableview.GroupKey{tableview.NoGrouping, GroupByType, GroupByState, GroupByNotesStatus}

// AllLabel labels the single group shown when grouping is off.
const AllLabel = "All Locations"

// IsGroupKey reports whether key is one of GroupKeys.
func IsGroupKey(key tableview.GroupKey) bool {
	return slices.Contains(GroupKeys, key)
}
