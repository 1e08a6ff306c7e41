package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultOrderNamespace prefixes persisted menu order keys: "<namespace>_<appId>".
const DefaultOrderNamespace = "appsbar_menu_order"

// OrderStore persists the user's manual menu order, one JSON array of menu ids per app.
type OrderStore struct {
	kv        KV
	namespace string
	logger    *slog.Logger
	writer    *AsyncWriter
}

func NewOrderStore(kv KV, namespace string, logger *slog.Logger) *OrderStore {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultOrderNamespace
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderStore{kv: kv, namespace: namespace, logger: logger}
}

// WithWriter makes Load see orders still queued on w, so a drop is visible before the
// backend write lands.
func (o *OrderStore) WithWriter(w *AsyncWriter) *OrderStore {
	o.writer = w
	return o
}

func (o *OrderStore) Key(appID string) string {
	return o.namespace + "_" + strings.TrimSpace(appID)
}

// Load returns the persisted order for appID. Missing, unreadable or corrupt values are
// reported as absent; the cause is logged.
func (o *OrderStore) Load(ctx context.Context, appID string) ([]string, bool) {
	raw, ok, err := o.read(ctx, o.Key(appID))
	if err != nil {
		o.logger.Warn("menu order: read failed", "app", appID, "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	ids, present, err := DecodeOrder(raw)
	if err != nil {
		o.logger.Warn("menu order: ignoring corrupt value", "app", appID, "err", err)
		return nil, false
	}
	return ids, present
}

func (o *OrderStore) read(ctx context.Context, key string) (string, bool, error) {
	if o.writer != nil {
		if v, deleted, ok := o.writer.Pending(key); ok {
			return v, !deleted, nil
		}
	}
	return o.kv.Get(ctx, key)
}

// Save overwrites the persisted order for appID.
func (o *OrderStore) Save(ctx context.Context, appID string, ids []string) error {
	return o.kv.Set(ctx, o.Key(appID), EncodeOrder(ids))
}

// Clear forgets the persisted order for appID.
func (o *OrderStore) Clear(ctx context.Context, appID string) error {
	return o.kv.Delete(ctx, o.Key(appID))
}

// AppIDs lists apps that have a persisted order.
func (o *OrderStore) AppIDs(ctx context.Context) ([]string, error) {
	keys, err := o.kv.Keys(ctx, o.namespace+"_")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, o.namespace+"_"))
	}
	return out, nil
}

// EncodeOrder renders ids as a JSON array, dropping blanks and duplicates.
func EncodeOrder(ids []string) string {
	b, _ := json.Marshal(dedupeIDs(ids))
	return string(b)
}

// DecodeOrder parses a persisted order. Elements may be strings or numbers (older values
// stored numeric menu ids). A JSON null means no order.
func DecodeOrder(raw string) ([]string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, false, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var xs []any
	if err := dec.Decode(&xs); err != nil {
		return nil, false, err
	}
	if xs == nil {
		return nil, false, nil
	}
	ids := make([]string, 0, len(xs))
	for i, x := range xs {
		switch v := x.(type) {
		case string:
			ids = append(ids, v)
		case json.Number:
			ids = append(ids, v.String())
		default:
			return nil, false, fmt.Errorf("element %d: unexpected %T", i, x)
		}
	}
	return dedupeIDs(ids), true, nil
}

func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// OrderPersister hands orders to an AsyncWriter (fire-and-forget).
type OrderPersister struct {
	orders *OrderStore
	w      *AsyncWriter
}

func NewOrderPersister(orders *OrderStore, w *AsyncWriter) OrderPersister {
	return OrderPersister{orders: orders, w: w}
}

func (p OrderPersister) Persist(appID string, ids []string) {
	p.w.Set(p.orders.Key(appID), EncodeOrder(ids))
}
