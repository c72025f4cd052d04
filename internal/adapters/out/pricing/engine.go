// Package pricing implements the delivery fee quoter. Quotes are derived from
// static rate tables, never from stored state, so quoting is side-effect free
// and a failed order creation leaves nothing behind.
package pricing

import (
	"context"
	"strings"

	"escrow/internal/core/domain/model/kernel"
	"escrow/internal/core/domain/model/order"
	"escrow/internal/core/ports"
	"escrow/internal/pkg/errs"
)

const (
	// baseFee is charged on every delivery.
	baseFee = 300

	// remoteSurcharge is added for cities outside the local zone.
	remoteSurcharge = 500

	// serviceFeePerItem covers handling per purchased unit.
	serviceFeePerItem = 25
)

// localCities are delivered at the base distance rate. Everything else pays
// the remote surcharge.
func localCities() map[string]struct{} {
	return map[string]struct{}{
		"lagos":  {},
		"ikeja":  {},
		"lekki":  {},
		"yaba":   {},
		"surulere": {},
	}
}

// TableEngine quotes delivery fees from static rate tables.
type TableEngine struct {
	currency string
}

// NewTableEngine creates a quoter that prices in the given currency.
func NewTableEngine(currency string) *TableEngine {
	return &TableEngine{currency: currency}
}

// Quote computes the fee breakdown for delivering the given items.
// Total always equals BaseFee + DistanceFee + ServiceFee.
func (e *TableEngine) Quote(_ context.Context, items []order.LineItem, info ports.DeliveryInfo) (ports.FeeBreakdown, error) {
	if len(items) == 0 {
		return ports.FeeBreakdown{}, errs.NewValueIsRequiredError("lineItems")
	}
	if info.Address == "" {
		return ports.FeeBreakdown{}, errs.NewValueIsRequiredError("address")
	}

	var distance int64
	if _, local := localCities()[strings.ToLower(strings.TrimSpace(info.City))]; !local {
		distance = remoteSurcharge
	}

	var units int64
	for _, item := range items {
		units += int64(item.Quantity)
	}

	base, err := kernel.NewMoney(baseFee, e.currency)
	if err != nil {
		return ports.FeeBreakdown{}, err
	}
	distanceFee, err := kernel.NewMoney(distance, e.currency)
	if err != nil {
		return ports.FeeBreakdown{}, err
	}
	serviceFee, err := kernel.NewMoney(units*serviceFeePerItem, e.currency)
	if err != nil {
		return ports.FeeBreakdown{}, err
	}

	total, err := base.Add(distanceFee)
	if err != nil {
		return ports.FeeBreakdown{}, err
	}
	total, err = total.Add(serviceFee)
	if err != nil {
		return ports.FeeBreakdown{}, err
	}

	return ports.FeeBreakdown{
		BaseFee:     base,
		DistanceFee: distanceFee,
		ServiceFee:  serviceFee,
		Total:       total,
	}, nil
}
