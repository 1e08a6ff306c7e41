package store

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func newTestLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestOrderStore_KeyFormat(t *testing.T) {
	t.Parallel()

	o := NewOrderStore(NewMemoryKV(), "", nil)
	if got := o.Key("42"); got != "appsbar_menu_order_42" {
		t.Fatalf("Key = %q", got)
	}
	o = NewOrderStore(NewMemoryKV(), "custom", nil)
	if got := o.Key("42"); got != "custom_42" {
		t.Fatalf("Key = %q", got)
	}
}

func TestOrderStore_SaveLoadClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	o := NewOrderStore(kv, "", nil)

	if ids, ok := o.Load(ctx, "10"); ok || ids != nil {
		t.Fatalf("expected absent order, got %v %v", ids, ok)
	}
	if err := o.Save(ctx, "10", []string{"12", "14", "12", " "}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _, _ := kv.Get(ctx, "appsbar_menu_order_10")
	if raw != `["12","14"]` {
		t.Fatalf("stored %q", raw)
	}
	ids, ok := o.Load(ctx, "10")
	if !ok || !reflect.DeepEqual(ids, []string{"12", "14"}) {
		t.Fatalf("Load = %v %v", ids, ok)
	}
	apps, err := o.AppIDs(ctx)
	if err != nil || !reflect.DeepEqual(apps, []string{"10"}) {
		t.Fatalf("AppIDs = %v %v", apps, err)
	}
	if err := o.Clear(ctx, "10"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := o.Load(ctx, "10"); ok {
		t.Fatalf("expected order cleared")
	}
}

func TestOrderStore_CorruptValueIsAbsentAndLogged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	logger, buf := newTestLogger()
	o := NewOrderStore(kv, "", logger)

	for _, raw := range []string{`[1, 2`, `{"a": 1}`, `[["x"]]`, `nope`} {
		_ = kv.Set(ctx, o.Key("10"), raw)
		if ids, ok := o.Load(ctx, "10"); ok || ids != nil {
			t.Fatalf("raw %q: expected absent, got %v %v", raw, ids, ok)
		}
	}
	if !strings.Contains(buf.String(), "corrupt") {
		t.Fatalf("expected corruption to be logged; log=%q", buf.String())
	}
}

type failingKV struct{ *MemoryKV }

var errBackendDown = errors.New("backend down")

func (failingKV) Get(context.Context, string) (string, bool, error) { return "", false, errBackendDown }
func (failingKV) Set(context.Context, string, string) error         { return errBackendDown }

func TestOrderStore_ReadFailureIsAbsent(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger()
	o := NewOrderStore(failingKV{NewMemoryKV()}, "", logger)
	if _, ok := o.Load(context.Background(), "10"); ok {
		t.Fatalf("expected absent on read failure")
	}
	if !strings.Contains(buf.String(), "backend down") {
		t.Fatalf("expected read failure logged; log=%q", buf.String())
	}
}

func TestDecodeOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw     string
		want    []string
		present bool
		wantErr bool
	}{
		{raw: ``, want: nil, present: false},
		{raw: `null`, want: nil, present: false},
		{raw: `[]`, want: []string{}, present: true},
		{raw: `[3, 1, 2]`, want: []string{"3", "1", "2"}, present: true},
		{raw: `["a", 7, "a"]`, want: []string{"a", "7"}, present: true},
		{raw: `[null]`, wantErr: true},
		{raw: `"a"`, wantErr: true},
	}
	for _, tc := range cases {
		got, present, err := DecodeOrder(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("DecodeOrder(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("DecodeOrder(%q): %v", tc.raw, err)
		}
		if present != tc.present || !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("DecodeOrder(%q) = %#v,%v want %#v,%v", tc.raw, got, present, tc.want, tc.present)
		}
	}
}

func TestSettings_AppOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := NewMemoryKV()
	logger, buf := newTestLogger()
	s := NewSettings(kv, logger)

	if got := s.AppOrder(ctx); got != nil {
		t.Fatalf("expected nil without config, got %v", got)
	}
	if err := s.SetAppOrder(ctx, []string{"sale.sale_menu_root", "crm.crm_menu_root"}); err != nil {
		t.Fatalf("SetAppOrder: %v", err)
	}
	if got := s.AppOrder(ctx); !reflect.DeepEqual(got, []string{"sale.sale_menu_root", "crm.crm_menu_root"}) {
		t.Fatalf("AppOrder = %v", got)
	}

	_ = kv.Set(ctx, homeMenuConfigKey, `{not json`)
	if got := s.AppOrder(ctx); got != nil {
		t.Fatalf("expected nil for malformed config, got %v", got)
	}
	if !strings.Contains(buf.String(), "malformed") {
		t.Fatalf("expected malformed config logged; log=%q", buf.String())
	}

	if err := s.ClearAppOrder(ctx); err != nil {
		t.Fatalf("ClearAppOrder: %v", err)
	}
	if got := s.AppOrder(ctx); got != nil {
		t.Fatalf("expected nil after clear, got %v", got)
	}
}
