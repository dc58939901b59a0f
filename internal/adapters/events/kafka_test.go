package events

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/utils/clock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaSink_JournalPosted(t *testing.T) {
	w := new(MockMessageWriter)
	sink := NewKafkaSink(w, clock.NewFixed(at))

	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything, mock.AnythingOfType("[]kafka.Message")).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	require.NoError(t, sink.JournalPosted(context.Background(), sampleJournal("J1", "ref-1")))

	require.Len(t, sent, 1)
	assert.Equal(t, "ref-1", string(sent[0].Key))
	assert.Equal(t, at, sent[0].Time)
	assert.Equal(t, "event_type", sent[0].Headers[0].Key)
	assert.Equal(t, EventJournalPosted, string(sent[0].Headers[0].Value))
	assert.Contains(t, string(sent[0].Value), `"journalID":"J1"`)
	w.AssertExpectations(t)
}

func TestKafkaSink_ReversedKeyedByOriginalReference(t *testing.T) {
	w := new(MockMessageWriter)
	sink := NewKafkaSink(w, clock.NewFixed(at))

	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	err := sink.JournalReversed(context.Background(), sampleJournal("J1", "ref-1"), sampleJournal("J2", "ref-1-REV"))
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Equal(t, "ref-1", string(sent[0].Key))
	assert.Contains(t, string(sent[0].Value), `"reversalOf":"J1"`)
}

func TestKafkaSink_WriteFailure(t *testing.T) {
	w := new(MockMessageWriter)
	sink := NewKafkaSink(w, clock.NewFixed(at))
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	w.On("Close").Return(nil).Once()

	err := sink.JournalPosted(context.Background(), sampleJournal("J1", "ref-1"))
	assert.ErrorContains(t, err, "broker down")
	assert.NoError(t, sink.Close())
	w.AssertExpectations(t)
}
