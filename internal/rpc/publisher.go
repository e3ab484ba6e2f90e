package rpc

import (
	"time"

	"github.com/LeJamon/goOracle/internal/core/oracle"
	"github.com/LeJamon/goOracle/internal/core/types"
	"github.com/LeJamon/goOracle/internal/rpc/rpc_types"
	"github.com/shopspring/decimal"
)

// PriceUpdateEvent is sent to subscribers of the prices stream for every
// committed update_price. It carries both directions of the pair.
type PriceUpdateEvent struct {
	Type         string                 `json:"type"`
	Component    types.ComponentAddress `json:"component"`
	Base         types.ResourceAddress  `json:"base"`
	Quote        types.ResourceAddress  `json:"quote"`
	Price        decimal.Decimal        `json:"price"`
	InversePrice decimal.Decimal        `json:"inverse_price"`
	Timestamp    string                 `json:"timestamp"`
}

// EventPublisher publishes events to WebSocket subscribers
type EventPublisher interface {
	PublishPriceUpdate(component types.ComponentAddress, u oracle.Update)
	GetSubscriberCount(stream rpc_types.SubscriptionType) int
}

// Publisher implements EventPublisher on a WebSocketServer
type Publisher struct {
	ws  *WebSocketServer
	now func() time.Time
}

// NewPublisher creates a publisher broadcasting through ws
func NewPublisher(ws *WebSocketServer) *Publisher {
	return &Publisher{ws: ws, now: time.Now}
}

// PublishPriceUpdate broadcasts u to the prices stream. Its signature
// matches engine.PriceListener.
func (p *Publisher) PublishPriceUpdate(component types.ComponentAddress, u oracle.Update) {
	if p.ws == nil {
		return
	}
	p.ws.BroadcastToSubscribers(rpc_types.SubPrices, &PriceUpdateEvent{
		Type:         "priceUpdate",
		Component:    component,
		Base:         u.Pair.Base,
		Quote:        u.Pair.Quote,
		Price:        u.Price,
		InversePrice: u.Inverse,
		Timestamp:    p.now().UTC().Format(time.RFC3339Nano),
	})
}

func (p *Publisher) GetSubscriberCount(stream rpc_types.SubscriptionType) int {
	if p.ws == nil {
		return 0
	}
	return p.ws.GetSubscriberCount(stream)
}
