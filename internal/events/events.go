// Package events defines the product change events published to NATS.
package events

import (
	"encoding/json"
	"time"
)

const (
	// StreamName is the default JetStream stream holding product events.
	StreamName = "PRODUCTS"
	// StreamSubjects captures every product event subject.
	StreamSubjects = "products.>"

	SubjectProductCreated = "products.created"
	SubjectProductUpdated = "products.updated"
	SubjectProductDeleted = "products.deleted"
)

// ProductState is the product as it is after a creation or an update.
type ProductState struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int32   `json:"quantity"`
}

// ProductEvent describes a change to a catalogue product.
// Deletions carry no ProductState.
type ProductEvent struct {
	subject   string
	ProductID int64 `json:"productId"`
	*ProductState
	OccurredAt time.Time `json:"occurredAt"`
}

func NewProductCreated(id int64, name string, price float64, quantity int32) ProductEvent {
	return ProductEvent{
		subject:      SubjectProductCreated,
		ProductID:    id,
		ProductState: &ProductState{Name: name, Price: price, Quantity: quantity},
		OccurredAt:   time.Now().UTC(),
	}
}

func NewProductUpdated(id int64, name string, price float64, quantity int32) ProductEvent {
	return ProductEvent{
		subject:      SubjectProductUpdated,
		ProductID:    id,
		ProductState: &ProductState{Name: name, Price: price, Quantity: quantity},
		OccurredAt:   time.Now().UTC(),
	}
}

func NewProductDeleted(id int64) ProductEvent {
	return ProductEvent{subject: SubjectProductDeleted, ProductID: id, OccurredAt: time.Now().UTC()}
}

func (e ProductEvent) Subject() string {
	return e.subject
}

func (e ProductEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
