package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"newsdigest/config"
	"newsdigest/types"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items() []types.NewsItem {
	return []types.NewsItem{
		{Title: "First", Link: "https://n.example/1", Image: "i1", Summary: "s1", Date: "2026-10-19 08:00", Timestamp: 1},
		{Title: "Second", Link: "https://n.example/2", Image: "i2", Summary: "s2", Date: "2026-10-19 08:00", Timestamp: 1},
	}
}

func TestNewWithoutBrokersIsNop(t *testing.T) {
	n, err := New(config.KafkaConfig{}, nil)
	require.NoError(t, err)
	assert.IsType(t, NopNotifier{}, n)
	assert.NoError(t, n.Publish(context.Background(), "run", items()))
	assert.NoError(t, n.Close())
}

func TestKafkaNotifierPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	for _, want := range items() {
		want := want
		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var got message
			if err := json.Unmarshal(val, &got); err != nil {
				return err
			}
			if got.Link != want.Link || got.RunID != "run-1" || got.ID != types.GenerateID(want.Link) {
				return errors.New("unexpected payload " + string(val))
			}
			return nil
		})
	}

	n := newKafkaNotifier(producer, "", nil)
	assert.Equal(t, config.DefaultKafkaTopic, n.topic)
	require.NoError(t, n.Publish(context.Background(), "run-1", items()))
	require.NoError(t, n.Close())
}

func TestKafkaNotifierEmptyBatch(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	n := newKafkaNotifier(producer, "topic", nil)

	require.NoError(t, n.Publish(context.Background(), "run", nil))
	require.NoError(t, n.Close())
}

func TestKafkaNotifierFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	n := newKafkaNotifier(producer, "topic", nil)
	err := n.Publish(context.Background(), "run", items())
	assert.Error(t, err)
	require.NoError(t, n.Close())
}

func TestKafkaNotifierCanceledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, producerConfig())
	n := newKafkaNotifier(producer, "topic", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Publish(ctx, "run", items()), context.Canceled)
	require.NoError(t, n.Close())
}
