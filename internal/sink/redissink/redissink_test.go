//go:build integration

package redissink

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	pkgredis "github.com/Chative-core-poc-v1/leadqual/pkg/redis"
)

func setupSink(t *testing.T) *Sink {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}
	cfg := &pkgredis.Config{URL: url, ReadTimeout: 3, WriteTimeout: 3, DialTimeout: 5}
	rdb, err := cfg.New(context.Background())
	require.NoError(t, err)

	prefix := "leadqual-test:" + uuid.NewString()[:8] + ":"
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
		_ = rdb.Close()
	})
	return New(rdb, prefix)
}

func lead(id, email string) *model.LeadRecord {
	rec := model.NewLeadRecord(id)
	rec.LeadType = model.LeadTypeCommercial
	rec.Put(model.FieldEmail, model.Value(email))
	rec.Put(model.FieldUseCase, model.NotApplicable)
	return rec
}

func TestIntegration_UpsertAndFind(t *testing.T) {
	ctx := context.Background()
	s := setupSink(t)

	ok, err := s.Upsert(ctx, lead("a", "Ann@x.com"))
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.FindByEmail(ctx, "ann@X.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.ID)
	assert.Equal(t, model.LeadTypeCommercial, got.LeadType)
	assert.True(t, got.Get(model.FieldUseCase).IsNotApplicable())

	missing, err := s.FindByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestIntegration_EmailMatchReusesID(t *testing.T) {
	ctx := context.Background()
	s := setupSink(t)

	_, err := s.Upsert(ctx, lead("old", "ann@x.com"))
	require.NoError(t, err)
	_, err = s.Upsert(ctx, lead("new", "ann@x.com"))
	require.NoError(t, err)

	ids, err := s.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, ids)
}

func TestIntegration_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	s := setupSink(t)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Upsert(ctx, lead("same", "same@x.com"))
		}()
	}
	wg.Wait()

	ids, err := s.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"same"}, ids)
}
