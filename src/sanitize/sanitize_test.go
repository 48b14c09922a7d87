package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "not ok 1 parallel/test-foo",
			want:  "not ok 1 parallel/test-foo",
		},
		{
			name:  "color codes",
			input: "\x1b[31mERROR: \x1b[0mbuild failed",
			want:  "ERROR: build failed",
		},
		{
			name:  "jenkins console note",
			input: "\x1b[8mha:////4NcBAAAAW+LCAA==\x1b[0m[test-rack] $ /bin/sh",
			want:  "[test-rack] $ /bin/sh",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}
