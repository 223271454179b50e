package middleware_test

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/promiscuity/internal/middleware"
)

func newTestGuard() *middleware.BruteForceGuard {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return middleware.NewBruteForceGuard(log)
}

func TestBruteForce_SuccessfulAuthResetsCount(t *testing.T) {
	guard := newTestGuard()

	guard.RecordFailure("key1")
	guard.RecordFailure("key1")
	guard.ResetKey("key1")

	if guard.IsBlocked("key1") {
		t.Fatal("key should not be blocked after reset")
	}
}

func TestBruteForce_FailureIncrementsAndBlocks(t *testing.T) {
	guard := newTestGuard()

	for range 5 {
		guard.RecordFailure("badkey")
	}

	if !guard.IsBlocked("badkey") {
		t.Fatal("key should be blocked after max failures")
	}

	if guard.IsBlocked("otherkey") {
		t.Fatal("unrelated key should not be blocked")
	}
}

func TestBruteForce_NotBlockedBeforeMax(t *testing.T) {
	guard := newTestGuard()

	for range 4 {
		guard.RecordFailure("almostbad")
	}

	if guard.IsBlocked("almostbad") {
		t.Fatal("key should not be blocked before max failures")
	}
}
