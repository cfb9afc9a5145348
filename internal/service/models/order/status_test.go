package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusPending, StatusDelivered, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusConfirmed, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusConfirmed, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		for _, next := range []Status{
			StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled,
		} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("Confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseStatus("confirmed")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("Unknown")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestParsePaymentStatus(t *testing.T) {
	p, err := ParsePaymentStatus("Paid")
	require.NoError(t, err)
	assert.Equal(t, PaymentStatusPaid, p)

	_, err = ParsePaymentStatus("paid")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}
