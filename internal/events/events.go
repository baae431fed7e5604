// Package events publishes lead lifecycle events over NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const DefaultSubject = "leads.saved"

type Config struct {
	URL     string `envconfig:"NATS_URL"`
	Token   string `envconfig:"NATS_TOKEN"`
	Subject string `envconfig:"NATS_SUBJECT" default:"leads.saved"`
}

func (c *Config) Enabled() bool { return c.URL != "" }

// LeadSaved is emitted after a lead is persisted.
type LeadSaved struct {
	ID               string    `json:"id"`
	Email            string    `json:"email,omitempty"`
	LeadType         string    `json:"lead_type,omitempty"`
	Status           string    `json:"status,omitempty"`
	InterestLevel    string    `json:"interest_level,omitempty"`
	FollowupRequired string    `json:"followup_required,omitempty"`
	NextFollowup     string    `json:"next_followup,omitempty"`
	At               time.Time `json:"at"`
}

func NewLeadSaved(rec *model.LeadRecord, at time.Time) LeadSaved {
	text := func(f model.Field) string {
		if v := rec.Get(f); v.Known() {
			return v.Text()
		}
		return ""
	}
	return LeadSaved{
		ID:               rec.ID,
		Email:            rec.Email(),
		LeadType:         string(rec.LeadType),
		Status:           text(model.FieldStatus),
		InterestLevel:    text(model.FieldInterestLevel),
		FollowupRequired: text(model.FieldFollowupRequired),
		NextFollowup:     text(model.FieldNextFollowup),
		At:               at.UTC(),
	}
}

type conn interface {
	Publish(subject string, data []byte) error
}

type Publisher struct {
	conn    conn
	nc      *nats.Conn
	subject string
	now     func() time.Time
}

// Connect dials NATS with reconnects enabled.
func Connect(cfg Config) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("leadqual"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logx.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logx.Info().Msg("nats reconnected")
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}
	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	p := newPublisher(nc, cfg.Subject)
	p.nc = nc
	return p, nil
}

func newPublisher(c conn, subject string) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Publisher{conn: c, subject: subject, now: time.Now}
}

func (p *Publisher) LeadSaved(_ context.Context, rec *model.LeadRecord) error {
	payload, err := json.Marshal(NewLeadSaved(rec, p.now()))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		logx.Warn().Err(err).Msg("nats drain failed")
		p.nc.Close()
	}
}
