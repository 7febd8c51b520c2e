package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/VigneshAMPT001/kind-ui/models"
	"github.com/VigneshAMPT001/kind-ui/utils"
)

// messageWriter abstracts *kafka.Writer for testing.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// GougingAlert is the message body published for every offer in the top
// price tier.
type GougingAlert struct {
	RunID             string    `json:"run_id"`
	GeneratedAt       time.Time `json:"generated_at"`
	SourceProductURL  string    `json:"source_product_url"`
	ProductName       string    `json:"product_name"`
	Category          string    `json:"category"`
	ASIN              string    `json:"asin"`
	VariantName       string    `json:"variant_name"`
	Seller            string    `json:"seller"`
	Price             *float64  `json:"price"`
	ReferencePrice    *float64  `json:"reference_price"`
	PriceDeltaAbs     *float64  `json:"price_delta_abs"`
	PriceDeltaPercent *float64  `json:"price_delta_percent"`
	Currency          string    `json:"currency"`
}

// AlertPublisher publishes gouging alerts to Kafka, keyed by ASIN so all
// alerts for one item land on one partition.
type AlertPublisher struct {
	writer messageWriter
	topic  string
	logger *utils.Logger
}

// NewAlertPublisher builds a kafka writer for brokers and topic.
func NewAlertPublisher(brokers []string, topic string, logger *utils.Logger) *AlertPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return newAlertPublisher(w, topic, logger)
}

func newAlertPublisher(w messageWriter, topic string, logger *utils.Logger) *AlertPublisher {
	return &AlertPublisher{writer: w, topic: topic, logger: logger}
}

// Write publishes one message per gouging-tier offer in snap. Snapshots
// without such offers publish nothing.
func (p *AlertPublisher) Write(ctx context.Context, snap *models.Snapshot) error {
	alerts := GougingAlerts(snap)
	if len(alerts) == 0 {
		p.logger.Info("[kafka] no gouging offers to publish")
		return nil
	}

	msgs := make([]kafka.Message, 0, len(alerts))
	for _, a := range alerts {
		body, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("kafka: marshal alert %s/%s: %w", a.ASIN, a.Seller, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(a.ASIN),
			Value: body,
			Time:  a.GeneratedAt,
			Headers: []kafka.Header{
				{Key: "run_id", Value: []byte(a.RunID)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: publish %d alerts to %s: %w", len(msgs), p.topic, err)
	}
	p.logger.Info("[kafka] published %d gouging alerts to %s", len(msgs), p.topic)
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *AlertPublisher) Close() error {
	return p.writer.Close()
}

// GougingAlerts collects every marketplace offer flagged in the gouging tier,
// in snapshot order.
func GougingAlerts(snap *models.Snapshot) []GougingAlert {
	var alerts []GougingAlert
	for _, fam := range snap.Families {
		for _, v := range fam.Variants {
			for _, o := range v.SellerMarket {
				if o.PriceFlag == nil || *o.PriceFlag != models.PriceGouging {
					continue
				}
				alerts = append(alerts, GougingAlert{
					RunID:             snap.RunID,
					GeneratedAt:       snap.GeneratedAt,
					SourceProductURL:  string(fam.Key),
					ProductName:       fam.ProductName,
					Category:          fam.Category,
					ASIN:              v.ASIN,
					VariantName:       v.VariantName,
					Seller:            o.SellerName,
					Price:             o.Price,
					ReferencePrice:    v.Price,
					PriceDeltaAbs:     o.PriceDeltaAbs,
					PriceDeltaPercent: o.PriceDeltaPercent,
					Currency:          o.PriceCurrency,
				})
			}
		}
	}
	return alerts
}
