package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeForStatus(t *testing.T) {
	cases := map[int]ErrorCode{
		400: ErrCodeInvalid,
		401: ErrCodeUnauthorized,
		403: ErrCodeForbidden,
		404: ErrCodeNotFound,
		409: ErrCodeConflict,
		422: ErrCodeInvalid,
		500: ErrCodeServer,
		503: ErrCodeServer,
		302: ErrCodeRequestFailed,
	}
	for status, expect := range cases {
		require.Equal(t, expect, CodeForStatus(status), "status %d", status)
	}
}

func TestIsDomainErrorThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load teachers: %w", StatusError(401, "Not authenticated"))

	require.True(t, IsDomainError(err, ErrCodeUnauthorized))
	require.False(t, IsDomainError(err, ErrCodeForbidden))
	require.False(t, IsDomainError(errors.New("plain"), ErrCodeUnauthorized))
}

func TestErrorMessage(t *testing.T) {
	require.Equal(t, "Student not found", StatusError(404, "Student not found").Error())

	cause := errors.New("dial tcp: connection refused")
	wrapped := WrapError(ErrCodeTransport, MsgTransportFailure, cause)
	require.Equal(t, "backend unreachable: dial tcp: connection refused", wrapped.Error())
	require.ErrorIs(t, wrapped, cause)
}
