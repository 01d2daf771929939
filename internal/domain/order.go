// Package domain contains core domain types for the ordering webhook.
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// OrderStatus is the tracking status of a committed order.
type OrderStatus string

// StatusInProgress is the only status written at commit time. Later
// statuses are set outside the webhook and only read back through tracking.
const StatusInProgress OrderStatus = "in progress"

// LineItem is one (item name, quantity) pair within an order.
type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// InProgressOrder maps item name to quantity for a session that has not
// committed yet.
type InProgressOrder map[string]int

// Clone returns a copy that shares no state with o.
func (o InProgressOrder) Clone() InProgressOrder {
	out := make(InProgressOrder, len(o))
	for name, qty := range o {
		out[name] = qty
	}
	return out
}

// Items returns the line items sorted by name.
func (o InProgressOrder) Items() []LineItem {
	items := make([]LineItem, 0, len(o))
	for name, qty := range o {
		items = append(items, LineItem{Name: name, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// String renders the order as "item1: qty1, item2: qty2".
func (o InProgressOrder) String() string {
	items := o.Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s: %d", item.Name, item.Quantity)
	}
	return strings.Join(parts, ", ")
}

// Cents is a money amount in hundredths of the currency unit.
type Cents int64

// String formats the amount with two decimals, e.g. "12.50".
func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, int64(c)/100, int64(c)%100)
}

// MenuItem is a priced entry that line items are validated against.
type MenuItem struct {
	Name  string `json:"name"`
	Price Cents  `json:"price"`
}
