package dbpkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsContention(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "SerializationFailure", err: &pq.Error{Code: codeSerializationFailure}, want: true},
		{name: "Deadlock", err: &pq.Error{Code: codeDeadlockDetected}, want: true},
		{name: "LockNotAvailable", err: &pq.Error{Code: codeLockNotAvailable}, want: true},
		{name: "Wrapped", err: fmt.Errorf("update: %w", &pq.Error{Code: codeDeadlockDetected}), want: true},
		{name: "UniqueViolation", err: &pq.Error{Code: codeUniqueViolation}, want: false},
		{name: "NotPQ", err: errors.New("boom"), want: false},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.want, IsContention(tc.err), tc.name)
	}
}

func TestConstraintViolations(t *testing.T) {
	unique := &pq.Error{Code: codeUniqueViolation, Constraint: "transfers_code_key"}
	check := &pq.Error{Code: codeCheckViolation, Constraint: "accounts_balance_check"}

	require.True(t, IsUniqueViolation(unique, "transfers_code_key"))
	require.False(t, IsUniqueViolation(unique, "transactions_code_key"))
	require.False(t, IsUniqueViolation(check, "accounts_balance_check"))

	require.True(t, IsCheckViolation(check, "accounts_balance_check"))
	require.False(t, IsCheckViolation(unique, "transfers_code_key"))
}
