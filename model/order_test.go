package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{OrderDraft, OrderConfirmed, true},
		{OrderDraft, OrderCancelled, true},
		{OrderDraft, OrderInProgress, false},
		{OrderDraft, OrderCompleted, false},
		{OrderConfirmed, OrderInProgress, true},
		{OrderConfirmed, OrderCancelled, true},
		{OrderConfirmed, OrderCompleted, false},
		{OrderConfirmed, OrderDraft, false},
		{OrderInProgress, OrderCompleted, true},
		{OrderInProgress, OrderCancelled, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderCancelled, OrderConfirmed, false},
		{OrderCancelled, OrderDraft, false},
	}
	for _, c := range cases {
		require.Equal(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestOrderStatusTerminalStates(t *testing.T) {
	all := []OrderStatus{OrderDraft, OrderConfirmed, OrderInProgress, OrderCompleted, OrderCancelled}
	for _, next := range all {
		require.False(t, OrderCompleted.CanTransitionTo(next))
		require.False(t, OrderCancelled.CanTransitionTo(next))
	}
}
