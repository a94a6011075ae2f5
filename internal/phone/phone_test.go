package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "+998901234567", "+998901234567"},
		{"spaces and dashes", "998 90-123-45-67", "+998901234567"},
		{"local without prefix", "90 123 45 67", "+901234567"},
		{"trunk prefix stripped when long", "8 998 90 123 45 67", "+998901234567"},
		{"short leading 8 kept", "8901234567", "+8901234567"},
		{"eleven digits leading 8", "89012345678", "+9012345678"},
		{"plus and junk", "+9 9 8tel90(123)4567", "+998901234567"},
		{"empty", "", ""},
		{"no digits", "tel: none", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"+998901234567",
		"8 998 90 123 45 67",
		"90 123 45 67",
		"89012345678",
		"8901234567",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
