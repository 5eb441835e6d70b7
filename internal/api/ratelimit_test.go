package api

import (
	"net/http"
	"testing"
)

func TestGetClientIP(t *testing.T) {
	req := func(remote string, headers map[string]string) *http.Request {
		r, _ := http.NewRequest("GET", "/", nil)
		r.RemoteAddr = remote
		for k, v := range headers {
			r.Header.Set(k, v)
		}
		return r
	}

	tests := []struct {
		name string
		r    *http.Request
		want string
	}{
		{"plain remote addr", req("10.0.0.1:5123", nil), "10.0.0.1"},
		{"x-forwarded-for single", req("10.0.0.1:5123", map[string]string{"X-Forwarded-For": "203.0.113.9"}), "203.0.113.9"},
		{"x-forwarded-for chain", req("10.0.0.1:5123", map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}), "203.0.113.9"},
		{"x-real-ip", req("10.0.0.1:5123", map[string]string{"X-Real-IP": "198.51.100.4"}), "198.51.100.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetClientIP(tt.r); got != tt.want {
				t.Fatalf("GetClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPRateLimiterIsolatesIPs(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	defer rl.Stop()

	if !rl.Allow("1.1.1.1") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("burst of one should reject the second request")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("a different IP must not share the bucket")
	}

	stats := rl.GetStats()
	if stats["allowed"] != 2 || stats["rejected"] != 1 {
		t.Fatalf("stats = %v", stats)
	}
}

func TestWebSocketRateLimiter(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	if !wrl.Allow("1.1.1.1") || !wrl.Allow("1.1.1.1") {
		t.Fatal("first two connections should pass")
	}
	if wrl.Allow("1.1.1.1") {
		t.Fatal("third connection should be rejected")
	}
	wrl.Release("1.1.1.1")
	if !wrl.Allow("1.1.1.1") {
		t.Fatal("release should free a slot")
	}
	if wrl.GetConnectionCount("1.1.1.1") != 2 {
		t.Fatalf("count = %d", wrl.GetConnectionCount("1.1.1.1"))
	}
}

func TestIsAllowedOrigin(t *testing.T) {
	allowed := []string{"http://localhost:3000", "http://localhost:9999", "http://127.0.0.1:8080"}
	for _, o := range allowed {
		if !IsAllowedOrigin(o) {
			t.Fatalf("%s should be allowed", o)
		}
	}
	denied := []string{"", "https://evil.example.com", "http://attacker.test"}
	for _, o := range denied {
		if IsAllowedOrigin(o) {
			t.Fatalf("%s should be denied", o)
		}
	}
}
