package models

import (
	"testing"

	apperrors "roomadmin/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderState_Transitions(t *testing.T) {
	order := &Order{Status: OrderStatusPending}

	require.NoError(t, GetOrderState(order.Status).Confirm(order))
	assert.Equal(t, OrderStatusConfirmed, order.Status)

	assert.ErrorIs(t, GetOrderState(order.Status).Confirm(order), apperrors.ErrOrderConfirmed)

	require.NoError(t, GetOrderState(order.Status).Complete(order))
	assert.Equal(t, OrderStatusCompleted, order.Status)

	assert.ErrorIs(t, GetOrderState(order.Status).Cancel(order), apperrors.ErrOrderCompleted)
}

func TestOrderState_PendingCannotComplete(t *testing.T) {
	order := &Order{Status: OrderStatusPending}
	assert.ErrorIs(t, GetOrderState(order.Status).Complete(order), apperrors.ErrOrderNotConfirmed)
	assert.Equal(t, OrderStatusPending, order.Status)
}

func TestOrderState_CancelledIsFinal(t *testing.T) {
	order := &Order{Status: OrderStatusPending}
	require.NoError(t, GetOrderState(order.Status).Cancel(order))
	assert.Equal(t, OrderStatusCancelled, order.Status)

	state := GetOrderState(order.Status)
	assert.ErrorIs(t, state.Confirm(order), apperrors.ErrOrderCancelled)
	assert.ErrorIs(t, state.Cancel(order), apperrors.ErrOrderCancelled)
	assert.ErrorIs(t, state.Complete(order), apperrors.ErrOrderCancelled)
}

func TestRoomStatus(t *testing.T) {
	assert.True(t, RoomStatusDisabled.Valid())
	assert.True(t, RoomStatusMaintenance.Valid())
	assert.False(t, RoomStatus(4).Valid())
	assert.False(t, RoomStatus(-1).Valid())
	assert.Equal(t, "occupied", RoomStatusOccupied.String())
	assert.Equal(t, "RoomStatus(9)", RoomStatus(9).String())

	room := &Room{Status: 5}
	assert.Error(t, room.ValidateStatus())
}

func TestOrderState_UnknownStatusRejectsEveryTransition(t *testing.T) {
	for _, status := range []int{-1, 4, 9} {
		order := &Order{Status: status}
		state := GetOrderState(status)

		assert.ErrorIs(t, state.Confirm(order), apperrors.ErrOrderInvalidStatus)
		assert.ErrorIs(t, state.Cancel(order), apperrors.ErrOrderInvalidStatus)
		assert.ErrorIs(t, state.Complete(order), apperrors.ErrOrderInvalidStatus)
		assert.Equal(t, status, order.Status)
	}
}
