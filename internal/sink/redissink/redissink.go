// Package redissink stores lead rows in Redis.
//
// Layout, under a configurable prefix:
//
//	lead:<id>            JSON array, the row in model.Columns order
//	lead:email:<email>   id of the latest lead with that email
//	leads                list of ids in insertion order
package redissink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	errx "github.com/Chative-core-poc-v1/leadqual/internal/core/error"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const maxTxRetries = 5

type Sink struct {
	rdb    redis.UniversalClient
	prefix string
}

func New(rdb redis.UniversalClient, prefix string) *Sink {
	return &Sink{rdb: rdb, prefix: prefix}
}

func (s *Sink) leadKey(id string) string     { return s.prefix + "lead:" + id }
func (s *Sink) emailKey(email string) string { return s.prefix + "lead:email:" + email }
func (s *Sink) listKey() string              { return s.prefix + "leads" }

// Upsert writes rec under its id, or under the id already indexed for its
// email. Concurrent writers to the same keys are retried optimistically.
func (s *Sink) Upsert(ctx context.Context, rec *model.LeadRecord) (bool, error) {
	if rec.ID == "" {
		return false, errx.WrapSink(errors.New("lead has no id"))
	}
	email := rec.Email()
	keys := []string{s.leadKey(rec.ID)}
	if email != "" {
		keys = append(keys, s.emailKey(email))
	}

	txf := func(tx *redis.Tx) error {
		id := rec.ID
		n, err := tx.Exists(ctx, s.leadKey(id)).Result()
		if err != nil {
			return err
		}
		isNew := n == 0
		if isNew && email != "" {
			prev, err := tx.Get(ctx, s.emailKey(email)).Result()
			switch {
			case err == nil && prev != "":
				id, isNew = prev, false
			case err != nil && !errors.Is(err, redis.Nil):
				return err
			}
		}

		row := rec.Row()
		row[0] = id
		b, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal row: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, s.leadKey(id), b, 0)
			if email != "" {
				p.Set(ctx, s.emailKey(email), id, 0)
			}
			if isNew {
				p.RPush(ctx, s.listKey(), id)
			}
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxTxRetries; attempt++ {
		err := s.rdb.Watch(ctx, txf, keys...)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			logx.Debug().Int("attempt", attempt).Str("lead_id", rec.ID).Msg("lead upsert conflicted, retrying")
			continue
		}
		logx.Error().Err(err).Str("lead_id", rec.ID).Msg("failed to upsert lead in redis")
		return false, errx.WrapSink(err)
	}
	return false, errx.WrapSink(fmt.Errorf("lead %s: %w after %d attempts", rec.ID, redis.TxFailedErr, maxTxRetries))
}

func (s *Sink) FindByEmail(ctx context.Context, email string) (*model.LeadRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	id, err := s.rdb.Get(ctx, s.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("email", email).Msg("failed to look up lead email in redis")
		return nil, errx.WrapRedis(err)
	}
	return s.Get(ctx, id)
}

// Get loads one lead by id, or nil when absent.
func (s *Sink) Get(ctx context.Context, id string) (*model.LeadRecord, error) {
	raw, err := s.rdb.Get(ctx, s.leadKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("lead_id", id).Msg("failed to load lead from redis")
		return nil, errx.WrapRedis(err)
	}
	var row []string
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("decode lead %s: %w", id, err)
	}
	return model.RecordFromRow(row)
}

var _ model.LeadSink = (*Sink)(nil)

// IDs lists stored lead ids in insertion order.
func (s *Sink) IDs(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.LRange(ctx, s.listKey(), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, errx.WrapRedis(err)
	}
	return ids, nil
}
