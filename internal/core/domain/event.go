package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType names a subscription lifecycle event a merchant can subscribe to.
type EventType string

const (
	EventSubscriptionCreated          EventType = "subscription.created"
	EventSubscriptionPaymentSucceeded EventType = "subscription.payment_succeeded"
	EventSubscriptionPaymentFailed    EventType = "subscription.payment_failed"
	EventSubscriptionCancelled        EventType = "subscription.cancelled"
)

// EventTest is the event name carried by reachability tests. It is not part of
// the catalog and cannot be subscribed to.
const EventTest EventType = "webhook.test"

// PayloadVersion is the envelope version sent in metadata.version.
const PayloadVersion = "1.0"

var eventCatalog = []EventType{
	EventSubscriptionCreated,
	EventSubscriptionPaymentSucceeded,
	EventSubscriptionPaymentFailed,
	EventSubscriptionCancelled,
}

// EventCatalog returns the subscribable event types in display order.
func EventCatalog() []EventType {
	out := make([]EventType, len(eventCatalog))
	copy(out, eventCatalog)
	return out
}

// Valid reports whether e belongs to the catalog.
func (e EventType) Valid() bool {
	for _, c := range eventCatalog {
		if c == e {
			return true
		}
	}
	return false
}

// ParseEventTypes converts raw names into a de-duplicated set of catalog events,
// preserving first-seen order. It fails on the first unknown name.
func ParseEventTypes(names []string) ([]EventType, error) {
	seen := make(map[EventType]struct{}, len(names))
	out := make([]EventType, 0, len(names))
	for _, n := range names {
		e := EventType(n)
		if !e.Valid() {
			return nil, fmt.Errorf("unknown event type %q", n)
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out, nil
}

// LifecycleEvent is a subscription state change raised by the upstream event source.
// Data stays raw so storage and signing never depend on per-event schemas.
type LifecycleEvent struct {
	ID         uuid.UUID       `json:"id"`
	Type       EventType       `json:"type"`
	MerchantID string          `json:"merchantId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// EventData is implemented by the typed payload of every catalog event.
type EventData interface {
	EventType() EventType
	validate() error
}

type SubscriptionCreated struct {
	SubscriptionPDA string `json:"subscriptionPda"`
	UserWallet      string `json:"userWallet"`
	PlanPDA         string `json:"planPda"`
	PlanName        string `json:"planName,omitempty"`
	FeeAmount       string `json:"feeAmount"`
	PaymentInterval string `json:"paymentInterval,omitempty"`
}

func (SubscriptionCreated) EventType() EventType { return EventSubscriptionCreated }

func (d SubscriptionCreated) validate() error {
	return requireFields(map[string]string{
		"subscriptionPda": d.SubscriptionPDA,
		"userWallet":      d.UserWallet,
		"planPda":         d.PlanPDA,
	})
}

type PaymentSucceeded struct {
	SubscriptionPDA string `json:"subscriptionPda"`
	UserWallet      string `json:"userWallet"`
	PlanPDA         string `json:"planPda"`
	Amount          string `json:"amount"`
	PaymentCount    int64  `json:"paymentCount"`
	TxSignature     string `json:"txSignature"`
}

func (PaymentSucceeded) EventType() EventType { return EventSubscriptionPaymentSucceeded }

func (d PaymentSucceeded) validate() error {
	return requireFields(map[string]string{
		"subscriptionPda": d.SubscriptionPDA,
		"userWallet":      d.UserWallet,
		"amount":          d.Amount,
		"txSignature":     d.TxSignature,
	})
}

type PaymentFailed struct {
	SubscriptionPDA string `json:"subscriptionPda"`
	UserWallet      string `json:"userWallet"`
	PlanPDA         string `json:"planPda"`
	Amount          string `json:"amount"`
	Reason          string `json:"reason"`
}

func (PaymentFailed) EventType() EventType { return EventSubscriptionPaymentFailed }

func (d PaymentFailed) validate() error {
	return requireFields(map[string]string{
		"subscriptionPda": d.SubscriptionPDA,
		"userWallet":      d.UserWallet,
		"reason":          d.Reason,
	})
}

type SubscriptionCancelled struct {
	SubscriptionPDA string `json:"subscriptionPda"`
	UserWallet      string `json:"userWallet"`
	PlanPDA         string `json:"planPda"`
	Reason          string `json:"reason,omitempty"`
}

func (SubscriptionCancelled) EventType() EventType { return EventSubscriptionCancelled }

func (d SubscriptionCancelled) validate() error {
	return requireFields(map[string]string{
		"subscriptionPda": d.SubscriptionPDA,
		"userWallet":      d.UserWallet,
	})
}

func requireFields(fields map[string]string) error {
	for _, name := range []string{"subscriptionPda", "userWallet", "planPda", "amount", "txSignature", "reason"} {
		if v, ok := fields[name]; ok && v == "" {
			return fmt.Errorf("missing field %q", name)
		}
	}
	return nil
}

// DecodeEventData decodes raw into the typed payload registered for t.
func DecodeEventData(t EventType, raw json.RawMessage) (EventData, error) {
	var data EventData
	switch t {
	case EventSubscriptionCreated:
		data = &SubscriptionCreated{}
	case EventSubscriptionPaymentSucceeded:
		data = &PaymentSucceeded{}
	case EventSubscriptionPaymentFailed:
		data = &PaymentFailed{}
	case EventSubscriptionCancelled:
		data = &SubscriptionCancelled{}
	default:
		return nil, fmt.Errorf("unknown event type %q", t)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(data); err != nil {
		return nil, fmt.Errorf("decoding %s data: %w", t, err)
	}
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s data: %w", t, err)
	}
	return data, nil
}

// Envelope is the JSON body POSTed to merchant endpoints. Field order is fixed by
// the struct so the serialized bytes, and therefore signatures, are stable.
type Envelope struct {
	Event    EventType        `json:"event"`
	Data     json.RawMessage  `json:"data"`
	Metadata EnvelopeMetadata `json:"metadata"`
}

type EnvelopeMetadata struct {
	EventID    string `json:"eventId,omitempty"`
	TestID     string `json:"testId,omitempty"`
	MerchantID string `json:"merchantId,omitempty"`
	OccurredAt string `json:"occurredAt,omitempty"`
	Version    string `json:"version"`
}

// BuildPayload serializes the delivery envelope for ev.
func BuildPayload(ev LifecycleEvent) ([]byte, error) {
	data := ev.Data
	if len(data) == 0 {
		data = json.RawMessage("{}")
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return nil, fmt.Errorf("event data is not valid JSON: %w", err)
	}
	return json.Marshal(Envelope{
		Event: ev.Type,
		Data:  compact.Bytes(),
		Metadata: EnvelopeMetadata{
			EventID:    ev.ID.String(),
			MerchantID: ev.MerchantID,
			OccurredAt: ev.OccurredAt.UTC().Format(time.RFC3339),
			Version:    PayloadVersion,
		},
	})
}
