package utils

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	bookingIDMu sync.Mutex
	lastStampMs int64
)

// GenerateBookingID returns a public booking identifier of the form
// BK-<year>-<stamp>, where the stamp is the current epoch milliseconds in
// base36. The stamp is forced strictly monotonic under a process-wide lock,
// so two calls in the same millisecond can never yield the same identifier
// within one process. Collisions across processes are caught by the unique
// index on booking_id and retried by the store.
func GenerateBookingID() string {
	bookingIDMu.Lock()
	ms := time.Now().UnixMilli()
	if ms <= lastStampMs {
		ms = lastStampMs + 1
	}
	lastStampMs = ms
	bookingIDMu.Unlock()

	stamp := strings.ToUpper(strconv.FormatInt(ms, 36))
	return fmt.Sprintf("BK-%d-%s", time.Now().Year(), stamp)
}
