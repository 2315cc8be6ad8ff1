package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Record is the stored outcome of a request keyed by its Idempotency-Key
// header. Replays return the recorded payload or error instead of running
// the operation again.
type Record struct {
	Key        string
	Payload    []byte
	Error      string
	OccurredAt time.Time
}

type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Save(ctx context.Context, rec Record) error
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONResultCodec) Decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

// Execute runs fn once per key. A replay with a recorded error returns that
// error; a replay with a recorded payload decodes it into out and skips fn.
// An empty key always runs fn.
func Execute(ctx context.Context, store Store, codec ResultCodec, key string, out any, fn func(ctx context.Context) (any, error)) (bool, error) {
	if store == nil || key == "" {
		res, err := fn(ctx)
		if err != nil {
			return false, err
		}
		return false, assign(codec, res, out)
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	rec, found, err := store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if found {
		if rec.Error != "" {
			return true, errors.New(rec.Error)
		}
		if out != nil && len(rec.Payload) > 0 {
			if err := codec.Decode(rec.Payload, out); err != nil {
				return true, err
			}
		}
		return true, nil
	}
	res, err := fn(ctx)
	record := Record{Key: key, OccurredAt: time.Now().UTC()}
	if err != nil {
		record.Error = err.Error()
		if saveErr := store.Save(ctx, record); saveErr != nil {
			return false, errors.Join(err, saveErr)
		}
		return false, err
	}
	if res != nil {
		payload, encErr := codec.Encode(res)
		if encErr != nil {
			return false, encErr
		}
		record.Payload = payload
	}
	if saveErr := store.Save(ctx, record); saveErr != nil {
		return false, saveErr
	}
	if out != nil && len(record.Payload) > 0 {
		// Decode the stored payload so fresh runs and replays return the
		// exact same shape.
		if err := codec.Decode(record.Payload, out); err != nil {
			return false, err
		}
	}
	return false, nil
}

func assign(codec ResultCodec, res, out any) error {
	if out == nil || res == nil {
		return nil
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	payload, err := codec.Encode(res)
	if err != nil {
		return err
	}
	return codec.Decode(payload, out)
}
