package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	domorder "example.com/storefront/internal/domain/order"
	"example.com/storefront/pkg/logger"
)

// DefaultTimeout bounds a whole SMTP exchange when the caller's context has
// no earlier deadline.
const DefaultTimeout = 10 * time.Second

type SendFunc func(ctx context.Context, addr, from string, to []string, msg []byte) error

// Notifier mails an order confirmation to the shipping email, when one was
// given.
type Notifier struct {
	addr    string
	from    string
	timeout time.Duration
	send    SendFunc
}

func NewNotifier(addr, from string) *Notifier {
	return &Notifier{addr: addr, from: from, timeout: DefaultTimeout, send: sendMail}
}

func (n *Notifier) PublishOrderPlaced(ctx context.Context, order *domorder.Order) error {
	const op = "mail.PublishOrderPlaced"

	to := strings.TrimSpace(order.Shipping.Email)
	if to == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.send(ctx, n.addr, n.from, []string{to}, buildMessage(n.from, to, order)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info(ctx).Str("order_id", order.ID).Str("to", to).Msg("order confirmation sent")
	return nil
}

// sendMail is smtp.SendMail bound to ctx: the connection is dialed with ctx,
// carries its deadline and is closed as soon as ctx is done.
func sendMail(ctx context.Context, addr, from string, to []string, msg []byte) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := exchange(conn, host, from, to, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ctxErr, err)
		}
		return err
	}
	return nil
}

func exchange(conn net.Conn, host, from string, to []string, msg []byte) error {
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		return err
	}
	if err := wc.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func buildMessage(from, to string, order *domorder.Order) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: Order " + order.ID + " confirmed\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Thank you for your order, %s.\r\n\r\n", order.Shipping.Name)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%d x %s @ $%s\r\n", item.Quantity, item.Name, item.UnitPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\r\nTotal: $%s (%d items)\r\n", order.Total.StringFixed(2), order.ItemCount)
	fmt.Fprintf(&b, "Paid with card ending in %s.\r\n", order.CardLast4)
	return []byte(b.String())
}
