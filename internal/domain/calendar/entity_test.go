package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDescription(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "drops trailing year",
			in:   "New York Fashion Week 2024",
			want: "New York Fashion Week",
		},
		{
			name: "drops season span token",
			in:   "Paris Fashion Week 2024/25",
			want: "Paris Fashion Week",
		},
		{
			name: "drops bare numbers",
			in:   "Met Gala 5",
			want: "Met Gala",
		},
		{
			name: "collapses internal whitespace",
			in:   "  Milan   Fashion  Week  ",
			want: "Milan Fashion Week",
		},
		{
			name: "unchanged without year tokens",
			in:   "CFDA Awards",
			want: "CFDA Awards",
		},
		{
			name: "year in the middle",
			in:   "Fall 2024 Couture Shows",
			want: "Fall Couture Shows",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeDescription(tc.in))
		})
	}
}

func TestNormalizeDescription_StableIdentity(t *testing.T) {
	// Occurrences of the same event across seasons must normalize to
	// the same definition identity
	a := NormalizeDescription("New York Fashion Week 2023")
	b := NormalizeDescription("New York Fashion Week 2024")
	assert.Equal(t, a, b)
}
