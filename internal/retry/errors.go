package retry

import (
	"errors"
	"net"
	"net/url"
	"syscall"

	bw "github.com/danfortner/brushwork"
)

// IsTransient determines whether an error is worth retrying. Categorized
// module errors answer for themselves via Retryable; anything else falls
// back to network-level heuristics:
//   - timeouts
//   - connection resets and refusals
//   - DNS failures
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ge *bw.Error
	if errors.As(err, &ge) {
		return ge.Retryable()
	}

	return isTransientNetworkError(err)
}

// isTransientNetworkError checks for network-level transient errors.
func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		return isTransientNetworkError(urlErr.Err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	return false
}
