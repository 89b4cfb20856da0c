package util

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "operation timed out" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped deadline", fmt.Errorf("query users: %w", context.DeadlineExceeded), true},
		{"net timeout", timeoutErr{}, true},
		{"net op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"connection refused text", errors.New("dial tcp 127.0.0.1:6379: connection refused"), true},
		{"io timeout text", errors.New("read tcp: i/o timeout"), true},
		{"plain error", errors.New("constraint violation"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestToDomainErrorClassification(t *testing.T) {
	noRows := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, CodeNotFound, noRows.Code)
	assert.Equal(t, http.StatusNotFound, noRows.HTTPStatus)

	transient := ToDomainError(&net.OpError{Op: "dial", Err: errors.New("refused"), Addr: &net.TCPAddr{}})
	assert.Equal(t, CodeTransientInfra, transient.Code)
	assert.Equal(t, http.StatusServiceUnavailable, transient.HTTPStatus)

	generic := ToDomainError(errors.New("boom"))
	assert.Equal(t, CodeInternal, generic.Code)
	assert.Equal(t, "boom", generic.Message)

	passthrough := ToDomainError(NewPermissionDenied("requested role not available to user"))
	assert.Equal(t, CodePermissionDenied, passthrough.Code)
	assert.Equal(t, http.StatusForbidden, passthrough.HTTPStatus)
}

func TestIsBusinessFailure(t *testing.T) {
	assert.True(t, IsBusinessFailure(ToDomainError(NewPermissionDenied("denied"))))
	assert.True(t, IsBusinessFailure(ToDomainError(NewNotFound("user"))))
	assert.False(t, IsBusinessFailure(ToDomainError(NewSessionStoreFailure("failed to create session", errors.New("x")))))
	assert.False(t, IsBusinessFailure(nil))
}

func TestSessionStoreFailureWraps(t *testing.T) {
	cause := errors.New("redis down")
	err := NewSessionStoreFailure("failed to create session", cause)

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
	assert.Equal(t, CodeSessionStoreFailure, domainErr.Code)
	assert.ErrorIs(t, err, cause)
}

var _ net.Error = timeoutErr{}
