package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"not found", NotFoundf("request %d not found", 7), KindNotFound},
		{"wrapped conflict", fmt.Errorf("approve: %w", ErrPropertyRented), KindConflict},
		{"authorization", Forbiddenf("nope"), KindAuthorization},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), KindTimeout},
		{"typed timeout", Timeout("lock wait", errors.New("55P03")), KindTimeout},
		{"plain error", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestMessageOf_HidesCause(t *testing.T) {
	err := Internal("failed to approve rental request", errors.New("pq: connection reset"))
	assert.Equal(t, "failed to approve rental request", MessageOf(err))
	assert.Equal(t, "internal error", MessageOf(errors.New("pq: connection reset")))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestConflictSentinels_MatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("tx: %w", ErrRequestNotPending)
	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.NotErrorIs(t, err, ErrAgreementClosed)
}
