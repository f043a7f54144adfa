package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRotation(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"24h", 86400 * time.Second},
		{"60m", 3600 * time.Second},
		{"1d", 86400 * time.Second},
		{"0s", 0},
		{"30m", 30 * time.Minute},
		{"5s", 5 * time.Second},
	}
	for _, tc := range cases {
		got, err := ParseRotation(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseRotationErrors(t *testing.T) {
	for _, in := range []string{"", "24", "24x", "-1h"} {
		_, err := ParseRotation(in)
		assert.Error(t, err, in)
	}
}
