package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"courtbook/database"
)

func TestRetryPolicy_Run(t *testing.T) {
	transient := fmt.Errorf("%w: write conflict", database.ErrTransient)

	tests := []struct {
		name      string
		failures  int
		failWith  error
		wantCalls int
		wantErr   error
	}{
		{name: "succeeds first time", wantCalls: 1},
		{name: "recovers from transient errors", failures: 2, failWith: transient, wantCalls: 3},
		{name: "gives up after budget", failures: 10, failWith: transient, wantCalls: 3, wantErr: ErrStoreUnavailable},
		{name: "terminal errors are not retried", failures: 10, failWith: ErrCapacityExceeded, wantCalls: 1, wantErr: ErrCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := RetryPolicy{MaxTries: 3, Initial: 1, MaxInterval: 2}
			calls := 0
			err := policy.run(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
