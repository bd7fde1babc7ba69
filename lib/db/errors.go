package db

import (
	"errors"
	"io"
	"strings"
	"syscall"
)

var retryableErrs = []error{
	syscall.ECONNRESET,
	syscall.ECONNREFUSED,
	io.EOF,
}

// The driver does not always wrap the syscall error, so we also look at the message.
var retryableMessages = []string{
	"connection reset by peer",
	"connection refused",
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	for _, retryableErr := range retryableErrs {
		if errors.Is(err, retryableErr) {
			return true
		}
	}

	for _, msg := range retryableMessages {
		if strings.Contains(err.Error(), msg) {
			return true
		}
	}

	return false
}
