package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessageWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeMessageWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeMessageWriter) Close() error {
	f.closed = true
	return nil
}

func TestGougingAlerts(t *testing.T) {
	alerts := GougingAlerts(testSnapshot())

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "B100", a.ASIN)
	assert.Equal(t, "Resell Co", a.Seller)
	assert.Equal(t, "Kind Bars", a.ProductName)
	assert.Equal(t, 10.0, *a.ReferencePrice)
	assert.Equal(t, 60.0, *a.PriceDeltaPercent)
	assert.Equal(t, "run-1", a.RunID)
}

func TestAlertPublisherWrite(t *testing.T) {
	fw := &fakeMessageWriter{}
	p := newAlertPublisher(fw, "alerts", newTestLogger())

	require.NoError(t, p.Write(context.Background(), testSnapshot()))
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "B100", string(fw.msgs[0].Key))

	var got GougingAlert
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &got))
	assert.Equal(t, "Resell Co", got.Seller)

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestAlertPublisherNothingToPublish(t *testing.T) {
	fw := &fakeMessageWriter{err: errors.New("must not be called")}
	snap := testSnapshot()
	snap.Families[0].Variants[0].SellerMarket = snap.Families[0].Variants[0].SellerMarket[1:]

	require.NoError(t, newAlertPublisher(fw, "alerts", newTestLogger()).Write(context.Background(), snap))
}

func TestAlertPublisherError(t *testing.T) {
	fw := &fakeMessageWriter{err: errors.New("broker down")}
	err := newAlertPublisher(fw, "alerts", newTestLogger()).Write(context.Background(), testSnapshot())
	assert.ErrorContains(t, err, "broker down")
}
