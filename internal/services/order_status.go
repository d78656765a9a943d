package services

import (
	"padoca/internal/common"
	"padoca/internal/models"
)

// statusTransitions is the order lifecycle graph. An absent edge is an invalid
// transition regardless of who asks. ENTREGUE and CANCELADO have no outgoing
// edges.
var statusTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusRascunho:   {models.StatusPendente},
	models.StatusPendente:   {models.StatusConfirmado, models.StatusCancelado},
	models.StatusConfirmado: {models.StatusEmProducao, models.StatusCancelado},
	models.StatusEmProducao: {models.StatusPronto, models.StatusCancelado},
	models.StatusPronto:     {models.StatusEntregue, models.StatusCancelado},
	models.StatusEntregue:   {},
	models.StatusCancelado:  {},
}

func transitionAllowed(current, requested models.OrderStatus) bool {
	for _, next := range statusTransitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// DecideTransition checks whether role may move an order from current to
// requested. The edge check runs before the role check, so a client asking for
// an impossible transition learns it is impossible, not that their role is
// blocked. Client users may only cancel.
func DecideTransition(current, requested models.OrderStatus, role models.RoleType) error {
	if !requested.Valid() {
		return common.NewBadRequest("unknown order status: %s", requested)
	}
	if !transitionAllowed(current, requested) {
		return common.NewBadRequest("invalid status transition from %s to %s", current, requested)
	}
	if role == models.RoleClient && requested != models.StatusCancelado {
		return common.NewForbidden("role CLIENT cannot perform transition from %s to %s", current, requested)
	}
	return nil
}
