package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	ctx    context.Context
	marked []*sarama.ConsumerMessage
}

func (s *fakeSession) Claims() map[string][]int32               { return nil }
func (s *fakeSession) MemberID() string                         { return "member" }
func (s *fakeSession) GenerationID() int32                      { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)  {}
func (s *fakeSession) Commit()                                  {}
func (s *fakeSession) ResetOffset(string, int32, int64, string) {}
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, metadata string) {
	s.marked = append(s.marked, msg)
}
func (s *fakeSession) Context() context.Context { return s.ctx }

type fakeClaim struct {
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "payment-events" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

type scriptedHandler struct {
	errs map[int64]error
	seen []int64
}

func (h *scriptedHandler) Handle(_ context.Context, msg *sarama.ConsumerMessage) error {
	h.seen = append(h.seen, msg.Offset)
	return h.errs[msg.Offset]
}

func claimOf(msgs ...*sarama.ConsumerMessage) *fakeClaim {
	c := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(msgs))}
	for _, m := range msgs {
		c.messages <- m
	}
	close(c.messages)
	return c
}

func TestConsumeClaim_MarksHandledMessages(t *testing.T) {
	sess := &fakeSession{ctx: context.Background()}
	handler := &scriptedHandler{}
	h := consumerGroupHandler{handler: handler}

	m1 := &sarama.ConsumerMessage{Offset: 1}
	m2 := &sarama.ConsumerMessage{Offset: 2}

	require.NoError(t, h.ConsumeClaim(sess, claimOf(m1, m2)))
	assert.Equal(t, []int64{1, 2}, handler.seen)
	assert.Equal(t, []*sarama.ConsumerMessage{m1, m2}, sess.marked)
}

func TestConsumeClaim_StopsAtFailedMessage(t *testing.T) {
	sess := &fakeSession{ctx: context.Background()}
	boom := errors.New("transient")
	handler := &scriptedHandler{errs: map[int64]error{2: boom}}
	h := consumerGroupHandler{handler: handler}

	m1 := &sarama.ConsumerMessage{Offset: 1}
	m2 := &sarama.ConsumerMessage{Offset: 2}
	m3 := &sarama.ConsumerMessage{Offset: 3}

	err := h.ConsumeClaim(sess, claimOf(m1, m2, m3))

	// the failed message is not marked and nothing after it is consumed,
	// so the committed offset cannot advance past the failure
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int64{1, 2}, handler.seen)
	assert.Equal(t, []*sarama.ConsumerMessage{m1}, sess.marked)
}
