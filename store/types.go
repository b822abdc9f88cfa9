// Package store holds the record types of an order batch file: one header, any number of
// orders each followed by its items, and a trailer with control totals.
package store

import (
	"time"

	"github.com/kevinseim/beanio-sub003/bind"
)

// BatchHeader opens a batch.
type BatchHeader struct {
	RecordType string    `beanio:"type"`
	BatchID    string    `beanio:"batchId"`
	CreatedAt  time.Time `beanio:"createdAt"`
}

// Customer is nested in an order. A nil address is written as empty text.
type Customer struct {
	ID       int64   `beanio:"id"`
	Email    string  `beanio:"email"`
	FullName string  `beanio:"fullName"`
	Address  *string `beanio:"address"`
}

// Order is one order line. Prices are in cents.
type Order struct {
	RecordType string      `beanio:"type"`
	ID         int64       `beanio:"id"`
	Customer   Customer    `beanio:"customer"`
	Status     OrderStatus `beanio:"status"`
	TotalCents int64       `beanio:"totalCents"`
	Tags       []string    `beanio:"tags"`
	OrderedAt  time.Time   `beanio:"orderedAt"`
}

// OrderItem snapshots the price of a product at the time of purchase.
type OrderItem struct {
	RecordType string `beanio:"type"`
	OrderID    int64  `beanio:"orderId"`
	SKU        string `beanio:"sku"`
	Quantity   int    `beanio:"quantity"`
	UnitPrice  int64  `beanio:"unitPrice"`
}

// Trailer closes a batch with its control totals.
type Trailer struct {
	RecordType string `beanio:"type"`
	OrderCount int    `beanio:"orderCount"`
	TotalCents int64  `beanio:"totalCents"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Register adds the store classes to r as batchHeader, customer, order, orderItem and
// trailer.
func Register(r *bind.Registry) error {
	registrations := []func(*bind.Registry) error{
		func(r *bind.Registry) error { return bind.RegisterType[BatchHeader](r, "batchHeader") },
		func(r *bind.Registry) error { return bind.RegisterType[Customer](r, "customer") },
		func(r *bind.Registry) error { return bind.RegisterType[Order](r, "order") },
		func(r *bind.Registry) error { return bind.RegisterType[OrderItem](r, "orderItem") },
		func(r *bind.Registry) error { return bind.RegisterType[Trailer](r, "trailer") },
	}

	for _, register := range registrations {
		if err := register(r); err != nil {
			return err
		}
	}

	return nil
}
