package app

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// TestModeEnv, when truthy, makes the binary exit before dialing MongoDB or Redis.
const TestModeEnv = "ODYSSEY_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return parseTestMode(os.Getenv(TestModeEnv))
})

func parseTestMode(raw string) bool {
	on, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && on
}

// InTestMode reports whether runtime startup should be skipped. The
// environment is read once per process.
func InTestMode() bool {
	return testMode()
}
