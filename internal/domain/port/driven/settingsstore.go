package driven

import "context"

// SettingKeySelectedAccount remembers the last selected account id between runs.
const SettingKeySelectedAccount = "selected_account"

// SettingsStore defines the driven port for small key-value preferences.
type SettingsStore interface {
	// Get returns ("", nil) when the key is not set.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
