package compliance

import (
	"context"
	"testing"

	"github.com/amirasaad/payauth/pkg/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_Verify(t *testing.T) {
	tests := []struct {
		name    string
		blocked []string
		approve bool
		id      string
		want    bool
	}{
		{"approved by default", nil, true, "alice", true},
		{"blocked account", []string{" mallory ", ""}, true, "mallory", false},
		{"default reject", nil, false, "alice", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRules(tt.blocked, tt.approve, nil)
			ok, err := r.Verify(context.Background(), &account.Account{ID: tt.id})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestRules_VerifyErrors(t *testing.T) {
	r := NewRules(nil, true, nil)

	_, err := r.Verify(context.Background(), nil)
	assert.ErrorIs(t, err, account.ErrNilAccount)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Verify(ctx, &account.Account{ID: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}
