package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil input", nil, []string{}},
		{"only blanks", []string{"", "  "}, []string{}},
		{"trims and keeps order", []string{" city ", "state", "city", "revenue "}, []string{"city", "state", "revenue"}},
		{"case is significant", []string{"Name", "name"}, []string{"Name", "name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}
