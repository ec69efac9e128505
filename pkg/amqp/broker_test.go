package amqp

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	closed    bool
	exchanges []string
	published []string
}

func (c *fakeChannel) IsClosed() bool { return c.closed }

func (c *fakeChannel) ExchangeDeclare(name, _ string, _, _, _, _ bool, _ amqp.Table) error {
	c.exchanges = append(c.exchanges, name)
	return nil
}

func (c *fakeChannel) QueueDeclare(name string, _, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) QueueBind(_, _, _ string, _ bool, _ amqp.Table) error { return nil }

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, _ amqp.Publishing) error {
	c.published = append(c.published, key)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

type fakeConn struct {
	closed   bool
	channels []*fakeChannel
}

func (c *fakeConn) IsClosed() bool { return c.closed }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) openChannel() (channel, error) {
	ch := &fakeChannel{}
	c.channels = append(c.channels, ch)
	return ch, nil
}

func TestBroker_Reconnect(t *testing.T) {
	t.Parallel()
	var conns []*fakeConn
	b := &Broker{
		exchange: "lending",
		log:      zap.NewNop(),
		dial: func(string) (connection, error) {
			c := &fakeConn{}
			conns = append(conns, c)
			return c, nil
		},
	}
	ctx := context.Background()

	require.NoError(t, b.Publish(ctx, map[string]string{"a": "b"}, "notification.reminder"))
	require.Len(t, conns, 1)
	require.Len(t, conns[0].channels, 1)
	require.Equal(t, []string{"lending"}, conns[0].channels[0].exchanges)

	// the server closed the channel, the connection is still up
	conns[0].channels[0].closed = true
	require.NoError(t, b.Publish(ctx, map[string]string{"a": "b"}, "notification.expired"))
	require.Len(t, conns, 1)
	require.Len(t, conns[0].channels, 2)
	require.Equal(t, []string{"notification.expired"}, conns[0].channels[1].published)
	require.Equal(t, []string{"lending"}, conns[0].channels[1].exchanges)

	conns[0].closed = true
	require.NoError(t, b.Publish(ctx, map[string]string{"a": "b"}, "notification.banned"))
	require.Len(t, conns, 2)
	require.Equal(t, []string{"notification.banned"}, conns[1].channels[0].published)

	require.NoError(t, b.Close())
	require.True(t, conns[1].closed)
	require.True(t, conns[1].channels[0].closed)
}
