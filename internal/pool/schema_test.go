package pool

import (
	"errors"
	"testing"

	"profitScope/internal/model"
)

func TestClassifyV3(t *testing.T) {
	schema, err := Classify(v3PoolABIJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema != SchemaV3 {
		t.Fatalf("schema mismatch: %s", schema)
	}
}

func TestClassifyV2(t *testing.T) {
	schema, err := Classify(v2PairABIJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema != SchemaV2 {
		t.Fatalf("schema mismatch: %s", schema)
	}
}

func TestClassifyUnsupported(t *testing.T) {
	_, err := Classify(`[{"name":"Transfer","inputs":[{"name":"value"}]}]`)
	if !errors.Is(err, model.ErrUnsupportedPool) {
		t.Fatalf("expected ErrUnsupportedPool, got %v", err)
	}
}

func TestSwapTopicPerSchema(t *testing.T) {
	v2Topic, err := SwapTopic(SchemaV2)
	if err != nil {
		t.Fatalf("v2 topic: %v", err)
	}
	v3Topic, err := SwapTopic(SchemaV3)
	if err != nil {
		t.Fatalf("v3 topic: %v", err)
	}

	if v2Topic.Hex() != "0xd78ad95fa46c994b6551d0da85fc275fe613ce37657fb8d5e3d130840159d822" {
		t.Fatalf("v2 topic mismatch: %s", v2Topic.Hex())
	}
	if v3Topic.Hex() != "0x19b47279256b2a23a1665c810c8d55a1758940ee09377d4f8d26497a3577dc83" {
		t.Fatalf("v3 topic mismatch: %s", v3Topic.Hex())
	}
	if v2Topic == v3Topic {
		t.Fatalf("topics must differ per schema")
	}
}
