// Package sink holds decorators shared by the lead sink implementations.
package sink

import (
	"context"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

// Publisher announces saved leads.
type Publisher interface {
	LeadSaved(ctx context.Context, rec *model.LeadRecord) error
}

// Notifying publishes after every successful upsert. Publish failures are
// logged and never fail the save.
type Notifying struct {
	next model.LeadSink
	pub  Publisher
}

func Notify(next model.LeadSink, pub Publisher) *Notifying {
	return &Notifying{next: next, pub: pub}
}

func (n *Notifying) Upsert(ctx context.Context, rec *model.LeadRecord) (bool, error) {
	ok, err := n.next.Upsert(ctx, rec)
	if err != nil || !ok {
		return ok, err
	}
	if perr := n.pub.LeadSaved(ctx, rec); perr != nil {
		logx.Warn().Err(perr).Str("lead_id", rec.ID).Msg("lead saved event not published")
	}
	return true, nil
}

func (n *Notifying) FindByEmail(ctx context.Context, email string) (*model.LeadRecord, error) {
	return n.next.FindByEmail(ctx, email)
}

var _ model.LeadSink = (*Notifying)(nil)
