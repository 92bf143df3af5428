package ui

import (
	"testing"

	"github.com/tnlabs/auth-client-kit/internal/core/ports"
	"github.com/tnlabs/auth-client-kit/internal/infrastructure/keystore"
)

func newKeystore(t *testing.T) *keystore.File {
	t.Helper()
	ks, err := keystore.NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("keystore: %v", err)
	}
	return ks
}

func TestLoadTheme_DefaultsToSystem(t *testing.T) {
	ks := newKeystore(t)
	if got := LoadTheme(ks); got != ThemeSystem {
		t.Errorf("LoadTheme on empty store = %q, want system", got)
	}

	_ = ks.Set(ports.KeyTheme, "neon")
	if got := LoadTheme(ks); got != ThemeSystem {
		t.Errorf("LoadTheme with junk value = %q, want system", got)
	}
}

func TestSaveTheme_RoundTrip(t *testing.T) {
	ks := newKeystore(t)

	if err := SaveTheme(ks, ThemeDark); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}
	if got := LoadTheme(ks); got != ThemeDark {
		t.Errorf("LoadTheme = %q, want dark", got)
	}
}

func TestSaveTheme_RejectsUnknown(t *testing.T) {
	ks := newKeystore(t)
	if err := SaveTheme(ks, Theme("sepia")); err == nil {
		t.Fatalf("SaveTheme accepted an unknown theme")
	}
	if _, ok := ks.Get(ports.KeyTheme); ok {
		t.Errorf("rejected theme was still persisted")
	}
}

func TestSaveTheme_SurvivesClearAuth(t *testing.T) {
	ks := newKeystore(t)
	_ = ks.SetAccessToken("tok")
	if err := SaveTheme(ks, ThemeLight); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}

	if err := ks.ClearAuth(); err != nil {
		t.Fatalf("ClearAuth: %v", err)
	}
	if got := LoadTheme(ks); got != ThemeLight {
		t.Errorf("theme lost on ClearAuth: %q", got)
	}
}
