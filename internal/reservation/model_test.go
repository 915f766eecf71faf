package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionGuards(t *testing.T) {
	allStatuses := []string{
		StatusPending, StatusHold, StatusConfirmed, StatusApproved,
		StatusCancelled, StatusRejected, StatusExpired,
	}

	cases := []struct {
		action  string
		guard   func(string) bool
		allowed map[string]bool
	}{
		{
			action: "confirm",
			guard:  CanConfirm,
			allowed: map[string]bool{
				StatusPending: true,
				StatusHold:    true,
			},
		},
		{
			action: "approve",
			guard:  CanApprove,
			allowed: map[string]bool{
				StatusConfirmed: true,
			},
		},
		{
			action: "cancel",
			guard:  CanCancel,
			allowed: map[string]bool{
				StatusPending:   true,
				StatusHold:      true,
				StatusConfirmed: true,
				StatusApproved:  true,
			},
		},
		{
			action: "reject",
			guard:  CanReject,
			allowed: map[string]bool{
				StatusPending: true,
				StatusHold:    true,
			},
		},
		{
			action: "convert",
			guard:  CanConvert,
			allowed: map[string]bool{
				StatusConfirmed: true,
				StatusApproved:  true,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			for _, status := range allStatuses {
				assert.Equal(t, tc.allowed[status], tc.guard(status),
					"%s from %s", tc.action, status)
			}
		})
	}
}

func TestErrInvalidTransition(t *testing.T) {
	err := ErrInvalidTransition("confirm", StatusCancelled)
	assert.ErrorContains(t, err, "cannot confirm")
	assert.ErrorContains(t, err, StatusCancelled)
}
