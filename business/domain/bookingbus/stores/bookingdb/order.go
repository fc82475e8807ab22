package bookingdb

import (
	"fmt"

	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/order"
)

var orderByFields = map[string]string{
	bookingbus.OrderByStart:   "start_at",
	bookingbus.OrderByCreated: "created_at",
}

func orderByClause(orderBy order.By) (string, error) {
	by, exists := orderByFields[orderBy.Field]
	if !exists {
		return "", fmt.Errorf("field %q does not exist", orderBy.Field)
	}

	return " ORDER BY " + by + " " + orderBy.Direction, nil
}
