// Package notify delivers winner notices to lottery participants.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/vietanh2810/lottery-api/internal/config"
	"github.com/vietanh2810/lottery-api/internal/domain"
)

var ErrNoRecipient = errors.New("account has no email address")

var winnerBody = template.Must(template.New("winner").Parse(`Hello {{.Name}},

Congratulations! Your ballots won in the {{.DrawType}} lottery of {{.Date}}:
{{range .Prizes}}
- {{.Name}}: € {{.Amount}}{{end}}

Total: € {{.Total}}

The prize money will be transferred to your account.
`))

type winnerPrize struct {
	Name   string
	Amount string
}

type winnerView struct {
	Name     string
	DrawType string
	Date     string
	Prizes   []winnerPrize
	Total    string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type MailNotifier struct {
	conf *config.MailConfig
	send SendFunc
	now  func() time.Time
}

func NewMailNotifier(conf *config.MailConfig) *MailNotifier {
	return &MailNotifier{
		conf: conf,
		send: smtp.SendMail,
		now:  time.Now,
	}
}

func Subject(drawTypeName string) string {
	return fmt.Sprintf("You have won in the %s lottery", drawTypeName)
}

func (n *MailNotifier) NotifyWinner(ctx context.Context, notice domain.WinnerNotice) error {
	if notice.Account.Email == "" {
		return fmt.Errorf("account %d: %w", notice.Account.ID, ErrNoRecipient)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := n.compose(notice)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if n.conf.Username != "" {
		auth = smtp.PlainAuth("", n.conf.Username, n.conf.Password, n.conf.Host)
	}

	addr := net.JoinHostPort(n.conf.Host, strconv.Itoa(n.conf.Port))
	if err := n.send(addr, auth, n.conf.From, []string{notice.Account.Email}, msg); err != nil {
		return fmt.Errorf("smtp.SendMail -> %w", err)
	}

	return nil
}

func (n *MailNotifier) compose(notice domain.WinnerNotice) ([]byte, error) {
	view := winnerView{
		Name:     notice.Account.Name,
		DrawType: notice.Draw.DrawType.Name,
		Date:     notice.Draw.Date.Format(time.DateOnly),
		Total:    domain.FormatAmount(notice.Total()),
	}
	if view.Name == "" {
		view.Name = notice.Account.Email
	}
	for _, p := range notice.Prizes {
		view.Prizes = append(view.Prizes, winnerPrize{Name: p.Name, Amount: domain.FormatAmount(p.Amount)})
	}

	var body bytes.Buffer
	if err := winnerBody.Execute(&body, view); err != nil {
		return nil, fmt.Errorf("winnerBody.Execute -> %w", err)
	}

	var msg bytes.Buffer
	header := func(key, value string) {
		msg.WriteString(key + ": " + value + "\r\n")
	}
	header("From", n.conf.From)
	header("To", notice.Account.Email)
	header("Subject", Subject(notice.Draw.DrawType.Name))
	header("Date", n.now().Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@"+mailDomain(n.conf.From)+">")
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))

	return msg.Bytes(), nil
}

func mailDomain(from string) string {
	if i := strings.LastIndex(from, "@"); i >= 0 {
		return strings.TrimRight(from[i+1:], ">")
	}
	return "localhost"
}
