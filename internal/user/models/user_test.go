package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"practiceadmin/internal/tableview"
	dErrors "practiceadmin/pkg/domain-errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"valid", User{Name: "Ann", Email: "ann@example.com", Role: "Staff "}, false},
		{"missing name", User{Email: "ann@example.com", Role: RoleStaff}, true},
		{"bad email", User{Name: "Ann", Email: "ann", Role: RoleStaff}, true},
		{"unknown role", User{Name: "Ann", Email: "ann@example.com", Role: "owner"}, true},
		{"missing role", User{Name: "Ann", Email: "ann@example.com"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			u.Normalize()
			err := u.Validate()
			if tt.wantErr {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSeedViewByRole(t *testing.T) {
	view := tableview.Transform(SeedUsers(), &tableview.SortSpec{Field: "name", Direction: tableview.Ascending}, "", GroupByRole)
	assert.Equal(t, []string{"staff", "manager", "admin"}, view.Labels())

	view = tableview.Transform(SeedUsers(), nil, "JANE", tableview.NoGrouping, tableview.WithAllLabel(AllLabel))
	records, ok := view.Lookup(AllLabel)
	assert.True(t, ok)
	assert.Len(t, records, 1)
}

func TestLookupUnknownField(t *testing.T) {
	_, ok := SeedUsers()[0].Lookup("password")
	assert.False(t, ok)
}
