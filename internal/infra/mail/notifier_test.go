package mail

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domcart "example.com/storefront/internal/domain/cart"
	domorder "example.com/storefront/internal/domain/order"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestNotifier(sent *[]sentMail, err error) *Notifier {
	n := NewNotifier("localhost:2025", "orders@storefront.local")
	n.send = func(ctx context.Context, addr, from string, to []string, msg []byte) error {
		if err != nil {
			return err
		}
		*sent = append(*sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return nil
	}
	return n
}

func sampleOrder(email string) *domorder.Order {
	return &domorder.Order{
		ID: "order-1",
		Items: []domcart.LineItem{
			{ProductID: 1, Name: "Backpack", UnitPrice: decimal.RequireFromString("109.95"), Quantity: 2},
		},
		Total:     decimal.RequireFromString("219.9"),
		ItemCount: 2,
		Shipping:  domorder.ShippingAddress{Name: "Jane Doe", Email: email},
		CardLast4: "1111",
	}
}

func TestPublishOrderPlaced_SendsConfirmation(t *testing.T) {
	var sent []sentMail
	n := newTestNotifier(&sent, nil)

	err := n.PublishOrderPlaced(context.Background(), sampleOrder("jane@example.com"))

	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Equal(t, "localhost:2025", sent[0].addr)
	require.Equal(t, "orders@storefront.local", sent[0].from)
	require.Equal(t, []string{"jane@example.com"}, sent[0].to)
	require.Contains(t, sent[0].msg, "To: jane@example.com\r\n")
	require.Contains(t, sent[0].msg, "Subject: Order order-1 confirmed\r\n")
	require.Contains(t, sent[0].msg, "2 x Backpack @ $109.95")
	require.Contains(t, sent[0].msg, "Total: $219.90 (2 items)")
	require.Contains(t, sent[0].msg, "card ending in 1111")
}

func TestPublishOrderPlaced_NoEmailSkips(t *testing.T) {
	var sent []sentMail
	n := newTestNotifier(&sent, nil)

	err := n.PublishOrderPlaced(context.Background(), sampleOrder("  "))

	require.NoError(t, err)
	require.Empty(t, sent)
}

func TestPublishOrderPlaced_SendError(t *testing.T) {
	errRelay := errors.New("relay refused")
	var sent []sentMail
	n := newTestNotifier(&sent, errRelay)

	err := n.PublishOrderPlaced(context.Background(), sampleOrder("jane@example.com"))

	require.ErrorIs(t, err, errRelay)
}

func TestPublishOrderPlaced_BlockedSendStopsOnCancel(t *testing.T) {
	n := NewNotifier("localhost:2025", "orders@storefront.local")
	n.send = func(ctx context.Context, addr, from string, to []string, msg []byte) error {
		<-ctx.Done()
		return ctx.Err()
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() {
		done <- n.PublishOrderPlaced(ctx, sampleOrder("jane@example.com"))
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("PublishOrderPlaced did not return after cancel")
	}
}

func TestPublishOrderPlaced_TimeoutBoundsSend(t *testing.T) {
	n := NewNotifier("localhost:2025", "orders@storefront.local")
	n.timeout = 20 * time.Millisecond
	n.send = func(ctx context.Context, addr, from string, to []string, msg []byte) error {
		<-ctx.Done()
		return ctx.Err()
	}

	err := n.PublishOrderPlaced(context.Background(), sampleOrder("jane@example.com"))

	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendMail_SilentRelayHonorsContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	// Accept connections and never send the SMTP greeting.
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	err = sendMail(ctx, ln.Addr().String(), "orders@storefront.local", []string{"jane@example.com"}, []byte("hi"))

	require.ErrorIs(t, err, context.Canceled)
	require.Less(t, time.Since(start), 2*time.Second)
}
