package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	assessorout "stc/internal/modules/assessor/adapter/out"
)

func writeStore(t *testing.T, dir, payload string) {
	t.Helper()
	assessorsDir := filepath.Join(dir, "assessors")
	if err := os.MkdirAll(assessorsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(assessorsDir, "assessors.json"), []byte(payload), 0o644); err != nil {
		t.Fatalf("write assessors.json: %v", err)
	}
}

func TestLoadMissingFileYieldsEmptyList(t *testing.T) {
	t.Parallel()
	store := assessorout.NewFileManifestStore(t.TempDir())
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected no manifests, got %d", len(manifests))
	}
}

func TestLoadResolvesRelativeBinaryPaths(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeStore(t, tmp, `[{"name":"whisper","version":"1.0.0","binary":"bin/whisper-bridge","sha256":"`+sixtyFourHex()+`","enabled":true}]`)

	store := assessorout.NewFileManifestStore(tmp)
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := filepath.Join(tmp, "bin", "whisper-bridge")
	if len(manifests) != 1 || manifests[0].Binary != want {
		t.Fatalf("relative binary not resolved: %+v", manifests)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	writeStore(t, tmp, `[{"name":"whisper","version":"1.0.0","binary":"/bin/x","sha256":"`+sixtyFourHex()+`","enabled":true,"capabilities":["tty"]}]`)

	store := assessorout.NewFileManifestStore(tmp)
	if _, err := store.Load(context.Background()); err == nil {
		t.Fatalf("unknown manifest fields should be rejected")
	}
}

func sixtyFourHex() string {
	out := make([]byte, 64)
	for i := range out {
		out[i] = 'a'
	}
	return string(out)
}
