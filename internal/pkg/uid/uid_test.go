package uid

import "testing"

func TestSnowflakeUnique(t *testing.T) {
	gen, err := NewSnowflakeNode(7)
	if err != nil {
		t.Fatalf("new snowflake: %v", err)
	}

	seen := make(map[int64]struct{}, 1000)
	for range 1000 {
		id := gen.Generate()
		if id <= 0 {
			t.Fatalf("expected positive id, got %d", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
	}
}

func TestSnowflakeRejectsBadNode(t *testing.T) {
	if _, err := NewSnowflakeNode(4096); err == nil {
		t.Fatal("expected error for node out of range")
	}
}

func TestUUIDGenerate(t *testing.T) {
	a, b := NewUUID().Generate(), NewUUID().Generate()
	if len(a) != 36 || a == b {
		t.Fatalf("unexpected uuids %q %q", a, b)
	}
}
