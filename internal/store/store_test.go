package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// backends returns every Backend implementation so the KV contract is
// checked against both.
func backends(t *testing.T) map[string]Backend {
	return map[string]Backend{
		"sqlite": testDB(t),
		"memory": NewMemoryBackend(),
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)

	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestSchemaVersion(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() before migrate error = %v", err)
	}
	if v != 0 {
		t.Errorf("version before migrate = %d, want 0", v)
	}

	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	if v, err = db.SchemaVersion(); err != nil || v != 1 {
		t.Errorf("SchemaVersion() = %d, %v; want 1", v, err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			kv := NewKV(b, nil)
			want := UserProfile{Name: "Ada", Email: "ada@example.com", Picture: "https://example.com/a.png"}
			if err := Write(kv, ProfileKey, &want); err != nil {
				t.Fatal(err)
			}
			got, ok := Read[UserProfile](kv, ProfileKey)
			if !ok {
				t.Fatal("Read() reported absent")
			}
			if got != want {
				t.Errorf("got %+v, want %+v", got, want)
			}
		})
	}
}

func TestWriteNilRemoves(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			kv := NewKV(b, nil)
			if err := Write(kv, ProfileKey, &UserProfile{Name: "a", Email: "b"}); err != nil {
				t.Fatal(err)
			}
			if err := Write[UserProfile](kv, ProfileKey, nil); err != nil {
				t.Fatal(err)
			}
			if _, ok := Read[UserProfile](kv, ProfileKey); ok {
				t.Error("key still present after nil write")
			}
			// Removing a missing key is fine.
			if err := Write[UserProfile](kv, ProfileKey, nil); err != nil {
				t.Errorf("second delete error = %v", err)
			}
		})
	}
}

func TestReadAbsent(t *testing.T) {
	kv := NewKV(NewMemoryBackend(), nil)
	thread, ok := Read[Thread](kv, ThreadKey)
	if ok || thread != nil {
		t.Errorf("got (%v, %v), want (nil, false)", thread, ok)
	}
}

func TestReadCorruptTreatedAsAbsent(t *testing.T) {
	tests := []struct {
		name string
		key  string
		raw  string
	}{
		{"profile not json", ProfileKey, "{not json"},
		{"profile wrong type", ProfileKey, `[1,2,3]`},
		{"profile missing email", ProfileKey, `{"name":"x"}`},
		{"profile null", ProfileKey, `null`},
		{"thread not json", ThreadKey, "]]"},
		{"thread object", ThreadKey, `{"id":"1"}`},
		{"thread bad sender", ThreadKey, `[{"id":"1","text":"hi","createdAt":"2024-01-01T00:00:00Z","from":"robot"}]`},
		{"thread bad attachment", ThreadKey, `[{"id":"1","text":"","createdAt":"2024-01-01T00:00:00Z","from":"user","attachments":[{"id":"a","name":"a","type":"image","url":"https://x"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			b := NewMemoryBackend()
			if err := b.Put(tt.key, []byte(tt.raw)); err != nil {
				t.Fatal(err)
			}
			kv := NewKV(b, zap.New(core))

			var ok bool
			if tt.key == ProfileKey {
				_, ok = Read[UserProfile](kv, tt.key)
			} else {
				_, ok = Read[Thread](kv, tt.key)
			}
			if ok {
				t.Error("corrupt value reported as present")
			}
			if logs.Len() != 1 {
				t.Fatalf("got %d log entries, want 1", logs.Len())
			}
			field, found := logs.All()[0].ContextMap()["error"]
			if !found {
				t.Fatal("log entry has no error field")
			}
			if s, _ := field.(string); s == "" {
				t.Error("empty error in log entry")
			}
		})
	}
}

type failingBackend struct{ err error }

func (f failingBackend) Get(string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingBackend) Put(string, []byte) error         { return f.err }
func (f failingBackend) Delete(string) error              { return f.err }

func TestBackendErrors(t *testing.T) {
	boom := errors.New("disk gone")
	kv := NewKV(failingBackend{err: boom}, nil)

	if _, ok := Read[UserProfile](kv, ProfileKey); ok {
		t.Error("Read() should report absent on backend error")
	}
	err := Write(kv, ProfileKey, &UserProfile{Name: "a", Email: "b"})
	if !errors.Is(err, boom) {
		t.Errorf("Write() error = %v, want wrapping %v", err, boom)
	}
}

func TestThreadRoundTripPreservesOrder(t *testing.T) {
	kv := NewKV(testDB(t), nil)
	search := true
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := Thread{
		{ID: "1", Text: "first", CreatedAt: now, Sender: SenderUser, SearchRequested: &search,
			Attachments: []Attachment{{ID: "a-1-0", Name: "a.png", Kind: KindImage, ContentRef: "data:image/png;base64,AA=="}}},
		{ID: "2", Text: "second", CreatedAt: now.Add(time.Second), Sender: SenderAssistant},
	}
	if err := Write(kv, ThreadKey, &want); err != nil {
		t.Fatal(err)
	}
	got, ok := Read[Thread](kv, ThreadKey)
	if !ok {
		t.Fatal("thread absent")
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("got %+v", got)
	}
	if got[0].SearchRequested == nil || !*got[0].SearchRequested {
		t.Error("searchRequested lost")
	}
	if got[0].Attachments[0].Kind != KindImage {
		t.Errorf("kind = %q, want image", got[0].Attachments[0].Kind)
	}
	if !got[1].CreatedAt.Equal(now.Add(time.Second)) {
		t.Errorf("createdAt = %v", got[1].CreatedAt)
	}
}

func TestKeys(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			kv := NewKV(b, nil)
			_ = Write(kv, ThreadKey, &Thread{})
			_ = Write(kv, ProfileKey, &UserProfile{Name: "a", Email: "b"})

			lister, ok := b.(interface{ Keys() ([]string, error) })
			if !ok {
				t.Fatal("backend does not list keys")
			}
			keys, err := lister.Keys()
			if err != nil {
				t.Fatal(err)
			}
			if len(keys) != 2 || keys[0] != ThreadKey || keys[1] != ProfileKey {
				t.Errorf("keys = %v", keys)
			}
		})
	}
}

func TestNewMessageID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	a, b := NewMessageID(now), NewMessageID(now)
	if a == b {
		t.Errorf("ids collide: %s", a)
	}
	if len(a) != len("1700000000000-")+12 {
		t.Errorf("unexpected id shape %q", a)
	}
}
