package lockout

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ipv4", "203.0.113.7", "203.0.113.7"},
		{"mapped ipv4", "::ffff:203.0.113.7", "203.0.113.7"},
		{"ipv6", "2001:db8::1", "2001:db8::1"},
		{"loopback ipv6", "::1", "::1"},
		{"unparseable passes through", "not-an-ip", "not-an-ip"},
		{"unparseable mapped prefix stripped", "::ffff:garbage", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAddress(tt.in))
		})
	}
}

func TestClientAddress(t *testing.T) {
	t.Run("remote addr with port", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/auth/login", nil)
		r.RemoteAddr = "203.0.113.7:49152"
		assert.Equal(t, "203.0.113.7", ClientAddress(r, false))
	})

	t.Run("mapped remote addr normalized", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/auth/login", nil)
		r.RemoteAddr = "[::ffff:203.0.113.7]:49152"
		assert.Equal(t, "203.0.113.7", ClientAddress(r, false))
	})

	t.Run("forwarded-for ignored without trusted proxy", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/auth/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", "198.51.100.9")
		assert.Equal(t, "10.0.0.1", ClientAddress(r, false))
	})

	t.Run("leftmost forwarded-for with trusted proxy", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/auth/login", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
		assert.Equal(t, "198.51.100.9", ClientAddress(r, true))
	})
}
