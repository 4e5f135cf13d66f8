package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesCopies(t *testing.T) {
	sentinel := New(http.StatusConflict, "SlotConflict", "slot already booked")
	withDetails := sentinel.WithDetails([]string{"13:00-14:00"})

	assert.True(t, errors.Is(withDetails, sentinel))
	assert.True(t, errors.Is(fmt.Errorf("create: %w", withDetails), sentinel))
	assert.Nil(t, sentinel.Details, "sentinel must not be mutated")

	other := New(http.StatusNotFound, "NotFound", "not found")
	assert.False(t, errors.Is(withDetails, other))
}

func TestWithCauseUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(http.StatusServiceUnavailable, "StorageUnavailable", "storage unavailable").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage unavailable", err.Error())
}
