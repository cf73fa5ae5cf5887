package logx

import "testing"

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"203.0.113.57:51234", "203.0.113.0"},
		{"203.0.113.57", "203.0.113.0"},
		{"[2001:db8:85a3:8d3:1319:8a2e:370:7348]:443", "2001:db8:85a3:8d3::"},
		{"2001:db8::1", "2001:db8::"},
		{"::ffff:198.51.100.9", "198.51.100.0"},
		{"127.0.0.1:8080", "127.0.0.1"},
		{"[::1]:8080", "127.0.0.1"},
		{"not-an-ip", "unknown_ip"},
	}
	for _, tt := range tests {
		if got := anonymizeIP(tt.addr); got != tt.want {
			t.Errorf("anonymizeIP(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
