package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialPoolRejectsEmptySecrets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secrets []string
		wantLen int
		wantErr error
	}{
		{name: "no secrets", secrets: nil, wantErr: ErrNoCredentials},
		{name: "only blanks", secrets: []string{"", "   "}, wantErr: ErrNoCredentials},
		{name: "blanks dropped", secrets: []string{"key-a", "", "key-b"}, wantLen: 2},
		{name: "single key", secrets: []string{"key-a"}, wantLen: 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			pool, err := NewCredentialPool(tc.secrets)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLen, pool.Len())
			assert.Equal(t, 0, pool.ActiveIndex())
		})
	}
}

func TestCredentialIDsFollowPoolOrder(t *testing.T) {
	t.Parallel()

	pool, err := NewCredentialPool([]string{"a", "b", "c"})
	require.NoError(t, err)

	for i, cred := range pool.Credentials() {
		assert.Equal(t, CredentialID(i), cred.ID)
	}
}

func TestQuotaErrorsBlockAtThirdConsecutive(t *testing.T) {
	t.Parallel()

	var cred Credential

	cred.RecordQuotaError()
	cred.RecordQuotaError()
	assert.False(t, cred.Blocked, "two consecutive quota errors must not block")

	cred.RecordQuotaError()
	assert.True(t, cred.Blocked, "third consecutive quota error must block")
	assert.Equal(t, 3, cred.ConsecutiveErrors)
	assert.Equal(t, 3, cred.ErrorCount)
}

func TestSuccessResetsConsecutiveErrorsAndUnblocks(t *testing.T) {
	t.Parallel()

	var cred Credential
	cred.RecordQuotaError()
	cred.RecordQuotaError()
	cred.RecordQuotaError()
	require.True(t, cred.Blocked)

	cred.RecordSuccess()

	assert.False(t, cred.Blocked)
	assert.Equal(t, 0, cred.ConsecutiveErrors)
	assert.Equal(t, 1, cred.SuccessCount)
	assert.Equal(t, 3, cred.ErrorCount, "error total is monotonic")
}

func TestAuthErrorBlocksImmediately(t *testing.T) {
	t.Parallel()

	var cred Credential
	require.Equal(t, 0, cred.ConsecutiveErrors)

	cred.RecordAuthError()

	assert.True(t, cred.Blocked, "a single auth error must block regardless of history")
	assert.Equal(t, 1, cred.ErrorCount)
}

func TestSuccessRateUntriedCountsAsPerfect(t *testing.T) {
	t.Parallel()

	var untried Credential
	assert.Equal(t, 1.0, untried.SuccessRate())

	tried := Credential{SuccessCount: 1, ErrorCount: 3}
	assert.InDelta(t, 0.25, tried.SuccessRate(), 1e-9)
}

func TestRotateNextWrapsAround(t *testing.T) {
	t.Parallel()

	pool, err := NewCredentialPool([]string{"a", "b", "c"})
	require.NoError(t, err)

	pool.RotateNext()
	assert.Equal(t, 1, pool.ActiveIndex())
	pool.RotateNext()
	assert.Equal(t, 2, pool.ActiveIndex())
	pool.RotateNext()
	assert.Equal(t, 0, pool.ActiveIndex())
}

func TestSelectHealthiestPrefersBestSuccessRate(t *testing.T) {
	t.Parallel()

	pool, err := NewCredentialPool([]string{"a", "b", "c"})
	require.NoError(t, err)

	credA, _ := pool.Get(0)
	credA.RecordSuccess()
	credA.RecordQuotaError()

	credB, _ := pool.Get(1)
	credB.RecordSuccess()
	credB.RecordSuccess()
	credB.RecordSuccess()
	credB.RecordQuotaError()

	credC, _ := pool.Get(2)
	credC.RecordQuotaError()
	credC.RecordQuotaError()
	credC.RecordQuotaError()

	pool.SelectHealthiest()

	// c is blocked, a is at 0.5, b is at 0.75.
	assert.Equal(t, 1, pool.ActiveIndex())
}

func TestSelectHealthiestTieBreaksByConsecutiveErrorsThenID(t *testing.T) {
	t.Parallel()

	pool, err := NewCredentialPool([]string{"a", "b", "c"})
	require.NoError(t, err)

	// a and b are both untried (rate 1.0) but a has a pending streak.
	credA, _ := pool.Get(0)
	credA.ConsecutiveErrors = 1

	pool.SelectHealthiest()
	assert.Equal(t, 1, pool.ActiveIndex(), "fewest consecutive errors wins the tie")

	credB, _ := pool.Get(1)
	credB.ConsecutiveErrors = 1
	credC, _ := pool.Get(2)
	credC.ConsecutiveErrors = 1

	pool.SelectHealthiest()
	assert.Equal(t, 0, pool.ActiveIndex(), "lowest ID wins when fully tied")
}

func TestSelectHealthiestResetsFullyBlockedPool(t *testing.T) {
	t.Parallel()

	pool, err := NewCredentialPool([]string{"a", "b"})
	require.NoError(t, err)

	for id := CredentialID(0); id < 2; id++ {
		cred, getErr := pool.Get(id)
		require.NoError(t, getErr)
		cred.RecordAuthError()
	}
	require.True(t, pool.AllBlocked())

	pool.SelectHealthiest()

	assert.Equal(t, 0, pool.ActiveIndex())
	assert.False(t, pool.AllBlocked())
	for _, cred := range pool.Credentials() {
		assert.False(t, cred.Blocked)
		assert.Equal(t, 0, cred.ConsecutiveErrors)
		assert.Equal(t, 1, cred.ErrorCount, "error totals survive the reset")
	}
}

func TestSnapshotCountsHealthAndAggregateRate(t *testing.T) {
	t.Parallel()

	pool, err := NewCredentialPool([]string{"a", "b", "c"})
	require.NoError(t, err)

	credA, _ := pool.Get(0)
	credA.RecordSuccess()
	credA.RecordSuccess()
	credA.RecordSuccess()

	credB, _ := pool.Get(1)
	credB.RecordAuthError()

	snapshot := pool.Snapshot()

	assert.Equal(t, 2, snapshot.Healthy)
	assert.Equal(t, 3, snapshot.Total)
	assert.InDelta(t, 0.75, snapshot.SuccessRate, 1e-9)
	assert.Equal(t, 0, snapshot.ActiveIndex)
}

func TestSnapshotUntriedPoolReportsPerfectRate(t *testing.T) {
	t.Parallel()

	pool, err := NewCredentialPool([]string{"a"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, pool.Snapshot().SuccessRate)
}
