package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/agenttest"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

type recorder struct {
	ids []string
	err error
}

func (r *recorder) LeadSaved(_ context.Context, rec *model.LeadRecord) error {
	r.ids = append(r.ids, rec.ID)
	return r.err
}

func TestNotifyPublishesOnSave(t *testing.T) {
	pub := &recorder{}
	s := Notify(&agenttest.Sink{}, pub)

	ok, err := s.Upsert(context.Background(), model.NewLeadRecord("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, pub.ids)
}

func TestNotifySkipsFailedSaves(t *testing.T) {
	pub := &recorder{}
	s := Notify(&agenttest.Sink{UpsertErr: errors.New("down")}, pub)
	_, err := s.Upsert(context.Background(), model.NewLeadRecord("a"))
	assert.Error(t, err)

	s = Notify(&agenttest.Sink{Reject: true}, pub)
	ok, err := s.Upsert(context.Background(), model.NewLeadRecord("b"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, pub.ids)
}

func TestNotifyIgnoresPublishErrors(t *testing.T) {
	s := Notify(&agenttest.Sink{}, &recorder{err: errors.New("nats down")})
	ok, err := s.Upsert(context.Background(), model.NewLeadRecord("a"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNotifyDelegatesLookups(t *testing.T) {
	inner := &agenttest.Sink{Existing: map[string]*model.LeadRecord{"a@x.com": model.NewLeadRecord("a")}}
	rec, err := Notify(inner, &recorder{}).FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "a", rec.ID)
}
