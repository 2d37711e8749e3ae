package localdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	type ident struct {
		UID      string `json:"uid"`
		Username string `json:"username"`
	}
	if err := s.Put(KeyIdentity, ident{UID: "u1", Username: "Alice"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Reopen to prove durability.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var got ident
	if err := s2.Get(KeyIdentity, &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UID != "u1" || got.Username != "Alice" {
		t.Fatalf("got = %+v", got)
	}
}

func TestCorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var v int
	if err := s.Get(KeyHighScore, &v); err != ErrNotFound {
		t.Fatalf("Get err = %v, want ErrNotFound", err)
	}
}

func TestCorruptValueDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"pi_user":"not an object"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	var got struct{ UID string }
	if err := s.Get(KeyIdentity, &got); err != ErrNotFound {
		t.Fatalf("Get err = %v, want ErrNotFound", err)
	}
	// The bad entry is gone for good.
	if err := s.Get(KeyIdentity, &got); err != ErrNotFound {
		t.Fatalf("second Get err = %v, want ErrNotFound", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Put(KeyIdentity, map[string]string{"uid": "u"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(KeyIdentity); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(KeyIdentity); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestHighScoreHelpers(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if hs := s.HighScore(); hs != 0 {
		t.Fatalf("empty high score = %d, want 0", hs)
	}
	if err := s.SetHighScore(42); err != nil {
		t.Fatalf("SetHighScore: %v", err)
	}
	if hs := s.HighScore(); hs != 42 {
		t.Fatalf("high score = %d, want 42", hs)
	}
}
