package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/example/archreview/internal/models"
)

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	var te timeout
	if errors.As(err, &te) {
		return te.Timeout()
	}
	return false
}

// transportError classifies a failure that happened before the backend gave
// us a usable answer.
func transportError(backend string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return models.NewError(models.KindConnection, fmt.Sprintf("%s request timed out", backend), err)
	case errors.Is(err, context.Canceled):
		return models.NewError(models.KindConnection, fmt.Sprintf("%s request cancelled", backend), err)
	}
	var netErr net.Error
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.As(err, &netErr) {
		return models.NewError(models.KindConnection, fmt.Sprintf("cannot reach %s", backend), err)
	}
	return models.NewError(models.KindProvider, fmt.Sprintf("%s API error", backend), err)
}

func providerError(backend, msg string) error {
	return models.NewError(models.KindProvider, fmt.Sprintf("%s API error: %s", backend, msg), nil)
}

func connectionError(backend, msg string, err error) error {
	return models.NewError(models.KindConnection, fmt.Sprintf("%s: %s", backend, msg), err)
}

func providerErrorWrap(backend string, err error) error {
	return models.NewError(models.KindProvider, backend+" API error", err)
}
