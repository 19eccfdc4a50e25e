package live

import (
	"context"
	"errors"
	"testing"
)

const sampleSnapshot = `
character:
  name: Alice Brightwood
  world: 33
  gil: 120000
retainers_ready: true
retainers:
  - {id: 500, name: Bob, gil: 4000}
  - {id: 501, name: Carla, gil: 2500}
`

func TestParseSnapshot(t *testing.T) {
	src, err := ParseSnapshot([]byte(sampleSnapshot))
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}

	ctx := context.Background()
	char, err := src.CurrentCharacter(ctx)
	if err != nil {
		t.Fatalf("CurrentCharacter: %v", err)
	}
	if char.Name != "Alice Brightwood" || char.WorldID != 33 || char.Gil != 120000 {
		t.Errorf("unexpected character snapshot: %+v", char)
	}

	if !src.RetainerListReady(ctx) {
		t.Fatal("expected retainer list to be ready")
	}
	retainers, err := src.RetainerList(ctx)
	if err != nil {
		t.Fatalf("RetainerList: %v", err)
	}
	if len(retainers) != 2 || retainers[0].ID != 500 || retainers[1].Gil != 2500 {
		t.Errorf("unexpected retainers: %+v", retainers)
	}
}

func TestParseSnapshotReadyDefaultsTrue(t *testing.T) {
	src, err := ParseSnapshot([]byte("character: {name: Alice, world: 1, gil: 5}"))
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	if !src.RetainerListReady(context.Background()) {
		t.Error("expected readiness to default to true when omitted")
	}
}

func TestParseSnapshotNotReady(t *testing.T) {
	src, err := ParseSnapshot([]byte(`
character: {name: Alice, world: 1, gil: 5}
retainers_ready: false
retainers:
  - {id: 500, name: Bob, gil: 4000}
`))
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}

	ctx := context.Background()
	if src.RetainerListReady(ctx) {
		t.Fatal("expected retainer list to be not ready")
	}
	if _, err := src.RetainerList(ctx); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestCurrentCharacterMissing(t *testing.T) {
	src, err := ParseSnapshot([]byte("retainers_ready: true"))
	if err != nil {
		t.Fatalf("ParseSnapshot: %v", err)
	}
	if _, err := src.CurrentCharacter(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady for empty character, got %v", err)
	}
}

func TestParseSnapshotInvalid(t *testing.T) {
	if _, err := ParseSnapshot([]byte("character: [not, a, map]")); err == nil {
		t.Error("expected error for malformed snapshot")
	}
}
