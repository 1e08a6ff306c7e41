package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

const homeMenuConfigKey = "user_settings_homemenu_config"

// Settings holds user-level preferences. The app order ("homemenu_config") is a JSON array
// of app xmlids.
type Settings struct {
	kv     KV
	logger *slog.Logger
}

func NewSettings(kv KV, logger *slog.Logger) Settings {
	if logger == nil {
		logger = slog.Default()
	}
	return Settings{kv: kv, logger: logger}
}

// AppOrder returns the configured app order. Missing or malformed config yields nil.
func (s Settings) AppOrder(ctx context.Context) []string {
	raw, ok, err := s.kv.Get(ctx, homeMenuConfigKey)
	if err != nil {
		s.logger.Warn("settings: read failed", "key", homeMenuConfigKey, "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	var xmlids []string
	if err := json.Unmarshal([]byte(raw), &xmlids); err != nil {
		s.logger.Warn("settings: ignoring malformed homemenu_config", "err", err)
		return nil
	}
	out := make([]string, 0, len(xmlids))
	for _, x := range xmlids {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	return out
}

func (s Settings) SetAppOrder(ctx context.Context, xmlids []string) error {
	b, err := json.Marshal(xmlids)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, homeMenuConfigKey, string(b))
}

func (s Settings) ClearAppOrder(ctx context.Context) error {
	return s.kv.Delete(ctx, homeMenuConfigKey)
}
