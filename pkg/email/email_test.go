package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"ann.lee@example.com":   "Ann Lee",
		"office_manager@x.io":   "Office Manager",
		"dr-smith+billing@x.io": "Dr Smith Billing",
		"solo@example.com":      "Solo",
		"@example.com":          "Admin",
		"":                      "Admin",
		"émile@example.com":     "Émile",
	}
	for in, want := range cases {
		assert.Equal(t, want, DisplayName(in), in)
	}
}
