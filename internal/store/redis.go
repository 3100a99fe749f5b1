package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

// DefaultIndexes lists the fields each collection is queried by. The Redis
// backend maintains a set per indexed field value; queries over unindexed
// fields fall back to a full collection scan.
var DefaultIndexes = map[string][]string{
	CollectionProjects:      {"organization_id", "status"},
	CollectionApplications:  {"applicant_id", "project_id", "organization_id", "status"},
	CollectionNotifications: {"user_id", "read"},
}

// Redis stores each record as a JSON string and keeps membership and
// equality-index sets alongside it. Index maintenance on write is not atomic
// with the record write; a torn write leaves an index entry that the scan
// fallback and reconciliation tolerate.
type Redis struct {
	client  *redis.Client
	indexes map[string][]string
}

func NewRedis(client *redis.Client, indexes map[string][]string) *Redis {
	if indexes == nil {
		indexes = DefaultIndexes
	}
	return &Redis{client: client, indexes: indexes}
}

func (r *Redis) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	raw, err := r.client.Get(ctx, docKey(collection, id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, common.NewError(common.CodeNotFound, "record not found", err)
	}
	if err != nil {
		return nil, common.NewError(common.CodeUnavailable, "store read failed", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, common.NewError(common.CodeInternal, "malformed record", err)
	}
	return doc, nil
}

func (r *Redis) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	previous, err := r.Get(ctx, collection, id)
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return err
	}
	return r.write(ctx, collection, id, previous, fields)
}

func (r *Redis) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	previous, err := r.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	merged := make(map[string]any, len(previous)+len(fields))
	for key, value := range previous {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return r.write(ctx, collection, id, previous, merged)
}

func (r *Redis) write(ctx context.Context, collection, id string, previous, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to encode record", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, docKey(collection, id), raw, 0)
	pipe.SAdd(ctx, idsKey(collection), id)
	for _, field := range r.indexes[collection] {
		if previous != nil {
			if old, ok := previous[field]; ok {
				pipe.SRem(ctx, indexKey(collection, field, old), id)
			}
		}
		if value, ok := doc[field]; ok {
			pipe.SAdd(ctx, indexKey(collection, field, value), id)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return common.NewError(common.CodeUnavailable, "store write failed", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, collection, id string) error {
	previous, err := r.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, docKey(collection, id))
	pipe.SRem(ctx, idsKey(collection), id)
	for _, field := range r.indexes[collection] {
		if value, ok := previous[field]; ok {
			pipe.SRem(ctx, indexKey(collection, field, value), id)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return common.NewError(common.CodeUnavailable, "store delete failed", err)
	}
	return nil
}

func (r *Redis) Query(ctx context.Context, collection string, filters []Filter, orderBy *Order) ([]map[string]any, error) {
	ids, scanned, err := r.candidateIDs(ctx, collection, filters)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(collection, id)
	}
	raws, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, common.NewError(common.CodeUnavailable, "store query failed", err)
	}
	var results []map[string]any
	for _, raw := range raws {
		text, ok := raw.(string)
		if !ok {
			// Index entry without a record: a torn write, skipped here and
			// cleaned up when the record is next written or deleted.
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			continue
		}
		if scanned && !Matches(doc, filters) {
			continue
		}
		if !scanned && !Matches(doc, filters) {
			// Stale index membership.
			continue
		}
		results = append(results, doc)
	}
	SortDocs(results, orderBy)
	return results, nil
}

// candidateIDs intersects index sets when every filter field is indexed and
// otherwise returns the whole collection for a client-side scan.
func (r *Redis) candidateIDs(ctx context.Context, collection string, filters []Filter) ([]string, bool, error) {
	if len(filters) > 0 && r.allIndexed(collection, filters) {
		keys := make([]string, len(filters))
		for i, f := range filters {
			keys[i] = indexKey(collection, f.Field, f.Value)
		}
		ids, err := r.client.SInter(ctx, keys...).Result()
		if err != nil {
			return nil, false, common.NewError(common.CodeUnavailable, "store query failed", err)
		}
		return ids, false, nil
	}
	ids, err := r.client.SMembers(ctx, idsKey(collection)).Result()
	if err != nil {
		return nil, false, common.NewError(common.CodeUnavailable, "store query failed", err)
	}
	return ids, true, nil
}

func (r *Redis) allIndexed(collection string, filters []Filter) bool {
	indexed := r.indexes[collection]
	for _, f := range filters {
		found := false
		for _, field := range indexed {
			if field == f.Field {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func docKey(collection, id string) string {
	return "doc:" + collection + ":" + id
}

func idsKey(collection string) string {
	return "ids:" + collection
}

func indexKey(collection, field string, value any) string {
	return fmt.Sprintf("idx:%s:%s:%v", collection, field, value)
}
