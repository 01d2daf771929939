package order

import (
	"fmt"
	"strings"
)

// User-facing replies. Every failure crossing the Service boundary is one of
// these strings.
const (
	MsgStartOrder        = "What would you like to order?"
	MsgParameterMismatch = "Sorry, I didn't understand. Please specify items and quantities clearly."
	MsgRemoveNoOrder     = "I can't find your order. Can you start a new one?"
	MsgCommitNoOrder     = "I can't find your order. Can you place a new one?"
	MsgCommitFailed      = "Sorry, there was an error. Please try again."
	MsgInvalidOrderID    = "Please provide a valid order ID to track your order."
	MsgTrackFailed       = "Sorry, I couldn't look up your order right now. Please try again."
)

func msgOrderSoFar(summary string) string {
	return fmt.Sprintf("So far you have: %s. Do you need anything else?", summary)
}

func msgRemoved(res RemoveResult) string {
	var b strings.Builder
	if len(res.Removed) > 0 {
		fmt.Fprintf(&b, "Removed %s from your order. ", strings.Join(res.Removed, ", "))
	}
	if len(res.NotFound) > 0 {
		fmt.Fprintf(&b, "Your order does not contain %s. ", strings.Join(res.NotFound, ", "))
	}
	if len(res.Remaining) == 0 {
		b.WriteString("Your order is now empty.")
	} else {
		fmt.Fprintf(&b, "Remaining items: %s.", res.Remaining)
	}
	return b.String()
}

func msgOrderPlaced(res CommitResult) string {
	if !res.TotalKnown {
		return fmt.Sprintf("Order placed! Your order id is #%d. Please pay on delivery.", res.OrderID)
	}
	return fmt.Sprintf("Order placed! Your order id is #%d. Total = %s. Please pay on delivery.", res.OrderID, res.Total)
}

func msgTracked(res TrackResult) string {
	if !res.Found {
		return fmt.Sprintf("No order found with ID #%d.", res.OrderID)
	}
	return fmt.Sprintf("The status of order #%d is: %s.", res.OrderID, res.Status)
}
