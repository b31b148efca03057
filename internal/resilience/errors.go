package resilience

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"github.com/sells-group/profile-cli/internal/model"
)

// TransientError marks an error as safe to retry (429, 5xx, network timeout).
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// NewTransientError wraps err as transient with an optional HTTP status code.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// statusPattern matches the "unexpected status NNN" wording used by the
// API clients under pkg/.
var statusPattern = regexp.MustCompile(`(?i)status (\d{3})`)

var transientPatterns = []string{
	"connection reset by peer",
	"broken pipe",
	"temporary failure in name resolution",
	"no such host",
	"tls handshake timeout",
	"i/o timeout",
	"server closed idle connection",
	"transport connection broken",
	"unexpected eof",
}

// IsTransient reports whether err is worth retrying: an explicit
// TransientError, a network timeout, a refused or reset connection, or a
// client error whose message carries a transient HTTP status.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	if code := StatusCode(err); code != 0 {
		return IsTransientHTTPStatus(code)
	}

	msg := strings.ToLower(err.Error())
	for _, p := range transientPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var te *TransientError
	if errors.As(err, &te) && te.StatusCode != 0 {
		return te.StatusCode
	}
	m := statusPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, _ := strconv.Atoi(m[1])
	return code
}

// IsTransientHTTPStatus reports whether an HTTP status is safe to retry.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 425, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// Classify maps any error returned by a provider call onto the provider
// error taxonomy. An existing ProviderError is returned unchanged.
func Classify(provider string, err error) *model.ProviderError {
	if err == nil {
		return nil
	}

	var pe *model.ProviderError
	if errors.As(err, &pe) {
		return pe
	}

	return model.NewProviderError(provider, Kind(err), err)
}

// Kind picks the ErrorKind for err.
func Kind(err error) model.ErrorKind {
	var netErr net.Error
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return model.ErrorTimeout
	case errors.Is(err, ErrCircuitOpen):
		return model.ErrorUnavailable
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return model.ErrorMalformed
	}

	msg := strings.ToLower(err.Error())
	switch {
	case StatusCode(err) != 0:
		return model.ErrorStatus
	case strings.Contains(msg, "unmarshal"), strings.Contains(msg, "decode"):
		return model.ErrorMalformed
	default:
		return model.ErrorTransport
	}
}
