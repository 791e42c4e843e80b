package cache

import (
	"context"
	"testing"
	"time"
)

func TestAcquireMergeLockPassThroughWhenRedisDisabled(t *testing.T) {
	if Enabled() {
		t.Skip("skip pass-through test: redis cache is enabled")
	}
	token, acquired, err := AcquireMergeLock(context.Background(), "KAKAO:3456789012", 10*time.Second)
	if err != nil {
		t.Fatalf("acquire without redis should not error: %v", err)
	}
	if !acquired {
		t.Fatalf("acquire without redis should pass through")
	}
	if token != "" {
		t.Fatalf("pass-through acquire should not issue a token, got %s", token)
	}
}

func TestReleaseMergeLockNoopWithoutToken(t *testing.T) {
	if err := ReleaseMergeLock(context.Background(), "KAKAO:3456789012", ""); err != nil {
		t.Fatalf("release with empty token should be a no-op: %v", err)
	}
}
