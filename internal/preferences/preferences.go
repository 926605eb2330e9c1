package preferences

import (
	"fmt"
	"log/slog"
	"maps"

	"github.com/spf13/cast"

	"github.com/at-ishikawa/killfeed/internal/config"
	"github.com/at-ishikawa/killfeed/internal/layout"
)

// Keys of the settings map.
const (
	KeyCorner         = "corner"
	KeyMaxLines       = "max_lines"
	KeyNewestAtBottom = "newest_at_bottom"
)

const (
	MinMaxLines = 1
	MaxMaxLines = 100
)

// Preferences are the user settings of the history panel.
type Preferences struct {
	Corner         layout.Corner `mapstructure:"corner" validate:"oneof=top-left top-right bottom-left bottom-right"`
	MaxLines       int           `mapstructure:"max_lines" validate:"min=1,max=100"`
	NewestAtBottom bool          `mapstructure:"newest_at_bottom"`
}

// Default is used for every missing or unusable setting.
func Default() Preferences {
	return Preferences{
		Corner:         layout.CornerTopRight,
		MaxLines:       10,
		NewestAtBottom: true,
	}
}

// Load reads the preferences of an add-on. Missing keys take their default,
// max_lines is clamped to [1, 100] and values that cannot be read as their
// type are replaced by the default. Only a store error is returned.
func Load(store Store, addonID string) (Preferences, error) {
	values, err := store.Get(addonID)
	if err != nil {
		return Default(), fmt.Errorf("store.Get(%s) > %w", addonID, err)
	}
	return FromMap(values), nil
}

// FromMap builds preferences from a loosely typed settings map.
func FromMap(values map[string]any) Preferences {
	prefs := Default()

	if raw, ok := values[KeyCorner]; ok {
		s, err := cast.ToStringE(raw)
		corner, known := layout.ParseCorner(s)
		if err == nil && known {
			prefs.Corner = corner
		} else {
			slog.Debug("ignoring corner", "value", raw)
		}
	}

	if raw, ok := values[KeyMaxLines]; ok {
		n, err := cast.ToIntE(raw)
		if err == nil {
			prefs.MaxLines = min(max(n, MinMaxLines), MaxMaxLines)
		} else {
			slog.Debug("ignoring max_lines", "value", raw, "error", err)
		}
	}

	if raw, ok := values[KeyNewestAtBottom]; ok {
		b, err := cast.ToBoolE(raw)
		if err == nil {
			prefs.NewestAtBottom = b
		} else {
			slog.Debug("ignoring newest_at_bottom", "value", raw, "error", err)
		}
	}

	return prefs
}

// ToMap returns the settings map of the preferences.
func (p Preferences) ToMap() map[string]any {
	return map[string]any{
		KeyCorner:         string(p.Corner),
		KeyMaxLines:       p.MaxLines,
		KeyNewestAtBottom: p.NewestAtBottom,
	}
}

// Save validates the preferences and merges them into the stored settings,
// keeping keys it does not own.
func Save(store Store, addonID string, prefs Preferences) error {
	validate, trans, err := config.NewValidator()
	if err != nil {
		return fmt.Errorf("config.NewValidator() > %w", err)
	}
	if err := validate.Struct(prefs); err != nil {
		return config.TranslateError(err, trans, "invalid preferences")
	}

	values, err := store.Get(addonID)
	if err != nil {
		return fmt.Errorf("store.Get(%s) > %w", addonID, err)
	}
	merged := make(map[string]any, len(values)+3)
	maps.Copy(merged, values)
	maps.Copy(merged, prefs.ToMap())

	if err := store.Set(addonID, merged); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", addonID, err)
	}
	return nil
}
