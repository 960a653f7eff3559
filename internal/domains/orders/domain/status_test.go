package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitionTo_EveryPair(t *testing.T) {
	allowed := map[Status]map[Status]bool{
		StatusPending:    {StatusProcessing: true, StatusCancelled: true},
		StatusProcessing: {StatusShipped: true, StatusCancelled: true},
		StatusShipped:    {StatusDelivered: true},
	}
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				order := &Order{Status: from}
				err := order.TransitionTo(to)
				if allowed[from][to] {
					require.NoError(t, err)
					require.Equal(t, to, order.Status)
					return
				}
				var transitionErr *TransitionError
				require.ErrorAs(t, err, &transitionErr)
				require.ErrorIs(t, err, ErrInvalidTransition)
				require.Equal(t, from, transitionErr.From)
				require.Equal(t, to, transitionErr.To)
				require.Equal(t, from.AllowedNext(), transitionErr.Allowed)
				require.Equal(t, from, order.Status, "status must not be clamped")
			})
		}
	}
}

func TestTransitionError_ListsAllowedNext(t *testing.T) {
	order := &Order{Status: StatusPending}
	err := order.TransitionTo(StatusShipped)

	var transitionErr *TransitionError
	require.True(t, errors.As(err, &transitionErr))
	require.Equal(t, []Status{StatusProcessing, StatusCancelled}, transitionErr.Allowed)
	require.Contains(t, err.Error(), "processing, cancelled")
}

func TestTerminalStatuses(t *testing.T) {
	require.True(t, StatusDelivered.Terminal())
	require.True(t, StatusCancelled.Terminal())
	require.False(t, StatusShipped.Terminal())

	order := &Order{Status: StatusDelivered}
	err := order.TransitionTo(StatusCancelled)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Contains(t, err.Error(), "final")
}

func TestTransitionTo_RejectsUnknownStatus(t *testing.T) {
	order := &Order{Status: StatusPending}
	require.ErrorIs(t, order.TransitionTo(Status("lost")), ErrInvalidStatus)
	require.Equal(t, StatusPending, order.Status)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus(" Shipped ")
	require.NoError(t, err)
	require.Equal(t, StatusShipped, status)

	_, err = ParseStatus("returned")
	require.ErrorIs(t, err, ErrInvalidStatus)
}
