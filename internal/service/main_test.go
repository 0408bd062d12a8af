package service

import (
	"testing"

	"go.uber.org/goleak"
)

// The loop is single-threaded; nothing it runs may leave goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
