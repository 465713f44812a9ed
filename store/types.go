// Package store holds the client/order/product model the examples, tests and the demo
// command materialize.
package store

import (
	"time"

	"github.com/shopspring/decimal"

	"rowgraph/primitive"
)

// Client owns orders. OrdersID is filled by queries selecting order ids only.
type Client struct {
	ID       int
	Name     string
	Orders   []Order
	OrdersID []int
}

// Order is one delivery of products.
type Order struct {
	ID           int
	DeliveryTime time.Time
	Products     []Product
	Status       Status
}

// Product is a line of an order. Value is monetary, hence decimal.
type Product struct {
	ID    int
	Name  string
	Value decimal.Decimal
}

// Status is stored as a single character code.
type Status int

const (
	StatusCreated Status = iota
	StatusStarted
	StatusFinished
)

func (Status) EnumMembers() []primitive.EnumMember {
	return []primitive.EnumMember{
		{Name: "Created", Raw: "C", Value: StatusCreated},
		{Name: "Started", Raw: "S", Value: StatusStarted},
		{Name: "Finished", Raw: "F", Value: StatusFinished},
	}
}

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "Created"
	case StatusStarted:
		return "Started"
	case StatusFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// MarshalText renders the member name in JSON output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
