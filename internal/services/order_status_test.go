package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"padoca/internal/common"
	"padoca/internal/models"
)

func TestDecideTransition_AllowedEdges(t *testing.T) {
	cases := []struct {
		current   models.OrderStatus
		requested models.OrderStatus
	}{
		{models.StatusRascunho, models.StatusPendente},
		{models.StatusPendente, models.StatusConfirmado},
		{models.StatusPendente, models.StatusCancelado},
		{models.StatusConfirmado, models.StatusEmProducao},
		{models.StatusConfirmado, models.StatusCancelado},
		{models.StatusEmProducao, models.StatusPronto},
		{models.StatusEmProducao, models.StatusCancelado},
		{models.StatusPronto, models.StatusEntregue},
		{models.StatusPronto, models.StatusCancelado},
	}
	for _, tc := range cases {
		err := DecideTransition(tc.current, tc.requested, models.RoleInternal)
		assert.NoError(t, err, "internal staff should move %s to %s", tc.current, tc.requested)
	}
}

func TestDecideTransition_AbsentEdgeRejectedForEveryone(t *testing.T) {
	cases := []struct {
		current   models.OrderStatus
		requested models.OrderStatus
	}{
		{models.StatusRascunho, models.StatusPronto},
		{models.StatusRascunho, models.StatusCancelado},
		{models.StatusPendente, models.StatusEntregue},
		{models.StatusConfirmado, models.StatusPendente},
		{models.StatusEmProducao, models.StatusEntregue},
		{models.StatusPronto, models.StatusConfirmado},
	}
	for _, tc := range cases {
		for _, role := range []models.RoleType{models.RoleInternal, models.RoleClient} {
			err := DecideTransition(tc.current, tc.requested, role)
			assert.Error(t, err)
			var br *common.BadRequestError
			assert.ErrorAs(t, err, &br, "absent edge %s to %s must be BadRequest for role %s", tc.current, tc.requested, role)
			assert.Contains(t, err.Error(), string(tc.current))
			assert.Contains(t, err.Error(), string(tc.requested))
		}
	}
}

func TestDecideTransition_TerminalStatesRejectEverything(t *testing.T) {
	targets := []models.OrderStatus{
		models.StatusRascunho, models.StatusPendente, models.StatusConfirmado,
		models.StatusEmProducao, models.StatusPronto, models.StatusEntregue, models.StatusCancelado,
	}
	for _, current := range []models.OrderStatus{models.StatusEntregue, models.StatusCancelado} {
		for _, requested := range targets {
			for _, role := range []models.RoleType{models.RoleInternal, models.RoleClient} {
				err := DecideTransition(current, requested, role)
				var br *common.BadRequestError
				assert.ErrorAs(t, err, &br, "terminal %s must reject %s for role %s", current, requested, role)
			}
		}
	}
}

func TestDecideTransition_ClientMayOnlyCancel(t *testing.T) {
	assert.NoError(t, DecideTransition(models.StatusPendente, models.StatusCancelado, models.RoleClient))
	assert.NoError(t, DecideTransition(models.StatusConfirmado, models.StatusCancelado, models.RoleClient))
	assert.NoError(t, DecideTransition(models.StatusEmProducao, models.StatusCancelado, models.RoleClient))
	assert.NoError(t, DecideTransition(models.StatusPronto, models.StatusCancelado, models.RoleClient))

	blocked := []struct {
		current   models.OrderStatus
		requested models.OrderStatus
	}{
		{models.StatusRascunho, models.StatusPendente},
		{models.StatusPendente, models.StatusConfirmado},
		{models.StatusConfirmado, models.StatusEmProducao},
		{models.StatusEmProducao, models.StatusPronto},
		{models.StatusPronto, models.StatusEntregue},
	}
	for _, tc := range blocked {
		err := DecideTransition(tc.current, tc.requested, models.RoleClient)
		var fb *common.ForbiddenError
		assert.ErrorAs(t, err, &fb, "client must not move %s to %s", tc.current, tc.requested)
		assert.Contains(t, err.Error(), "CLIENT")
		assert.Contains(t, err.Error(), string(tc.current))
		assert.Contains(t, err.Error(), string(tc.requested))
	}
}

func TestDecideTransition_EdgeCheckBeforeRoleCheck(t *testing.T) {
	// An impossible transition requested by a client must come back as
	// BadRequest, not as a role error.
	err := DecideTransition(models.StatusRascunho, models.StatusPronto, models.RoleClient)
	var br *common.BadRequestError
	assert.ErrorAs(t, err, &br)
}

func TestDecideTransition_UnknownStatus(t *testing.T) {
	err := DecideTransition(models.StatusPendente, models.OrderStatus("DESPACHADO"), models.RoleInternal)
	var br *common.BadRequestError
	assert.ErrorAs(t, err, &br)
}
