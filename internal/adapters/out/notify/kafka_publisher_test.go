package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"orderengine/internal/adapters/out/notify"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent(to order.Status) order.StatusChanged {
	return order.StatusChanged{
		EventID:        kernel.NewUUID(),
		OrderID:        kernel.MustUUID("0b7a8f5e-3c1d-4a39-9b7e-2f0c6f1d9a11"),
		OrderNumber:    "FD-250504-k1",
		PreviousStatus: to - 1,
		NewStatus:      to,
		Timestamp:      time.Date(2025, 5, 4, 19, 0, 0, 0, time.UTC),
		RecipientRefs:  []kernel.UUID{kernel.NewUUID()},
		Actor:          order.Actor{ID: "vendor-1", Role: order.RoleVendor},
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("should send one JSON message per event", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, sarama.NewConfig())
		events := []order.StatusChanged{sampleEvent(order.Confirmed), sampleEvent(order.Preparing)}
		for _, event := range events {
			expected := event
			producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
				var decoded order.StatusChanged
				if err := json.Unmarshal(val, &decoded); err != nil {
					return err
				}
				if decoded.NewStatus != expected.NewStatus || !decoded.EventID.IsEqual(expected.EventID) {
					return fmt.Errorf("unexpected event %+v", decoded)
				}
				return nil
			})
		}
		publisher := notify.NewKafkaPublisher(producer, "order-status")

		err := publisher.Publish(ctx, events)

		require.NoError(t, err)
		require.NoError(t, publisher.Close())
	})

	t.Run("should not touch the broker for an empty batch", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, sarama.NewConfig())
		publisher := notify.NewKafkaPublisher(producer, "order-status")

		require.NoError(t, publisher.Publish(ctx, nil))
		require.NoError(t, publisher.Close())
	})

	t.Run("should return broker failures", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, sarama.NewConfig())
		producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)
		publisher := notify.NewKafkaPublisher(producer, "order-status")

		err := publisher.Publish(ctx, []order.StatusChanged{sampleEvent(order.Pending)})

		require.Error(t, err)
		assert.True(t, errors.Is(err, sarama.ErrNotLeaderForPartition))
		require.NoError(t, publisher.Close())
	})

	t.Run("should stop on a cancelled context", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, sarama.NewConfig())
		publisher := notify.NewKafkaPublisher(producer, "order-status")
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := publisher.Publish(cancelled, []order.StatusChanged{sampleEvent(order.Pending)})

		assert.ErrorIs(t, err, context.Canceled)
		require.NoError(t, publisher.Close())
	})
}

func TestLogPublisher_Publish(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	publisher := notify.NewLogPublisher(logger)

	err := publisher.Publish(context.Background(), []order.StatusChanged{sampleEvent(order.Delivered)})

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"to":"delivered"`)
	assert.Contains(t, buf.String(), `"component":"LogPublisher"`)
	assert.Contains(t, buf.String(), `"order_number":"FD-250504-k1"`)
}
