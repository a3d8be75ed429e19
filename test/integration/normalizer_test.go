package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"schaledb/internal/fetcher"
	"schaledb/internal/models"
	"schaledb/internal/normalizer"
)

func TestNormalizer_EquipmentFixture(t *testing.T) {
	obj, err := fetcher.NewFetcher(nil).Fetch(context.Background(), filepath.Join("..", "fixtures", "equipment.json"))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	batch, err := normalizer.NewProcessor(nil).Process(obj, "equipment")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	records, ok := batch.Payload().([]models.Equipment)
	if !ok {
		t.Fatalf("Expected []models.Equipment, got %T", batch.Payload())
	}

	wantIDs := []int{1000, 1001, 2001}
	if len(records) != len(wantIDs) {
		t.Fatalf("Expected %d records, got %d", len(wantIDs), len(records))
	}

	for i, id := range wantIDs {
		if records[i].ID != id {
			t.Errorf("Record %d: expected id %d, got %d", i, id, records[i].ID)
		}
	}

	if records[1].Tier != 2 || records[1].Rarity != models.RarityR {
		t.Errorf("Expected coerced tier 2 and rarity R, got %d %s", records[1].Tier, records[1].Rarity)
	}

	if records[2].Name != "ゴム手袋" {
		t.Errorf("Expected unicode name preserved, got %s", records[2].Name)
	}

	skips := batch.Skips()

	wantSkips := []struct {
		key   string
		field string
		err   error
	}{
		{key: "1002", field: normalizer.FieldRarity, err: models.ErrInvalidRarity},
		{key: "2000", field: normalizer.FieldTier, err: normalizer.ErrNotInteger},
		{key: "3000", field: normalizer.FieldIcon, err: normalizer.ErrMissingField},
	}

	if len(skips) != len(wantSkips) {
		t.Fatalf("Expected %d skips, got %d: %+v", len(wantSkips), len(skips), skips)
	}

	for i, want := range wantSkips {
		var verr *normalizer.ValidationError

		if skips[i].Key != want.key {
			t.Errorf("Skip %d: expected key %s, got %s", i, want.key, skips[i].Key)
		}

		if !errors.As(skips[i].Err, &verr) || verr.Field != want.field {
			t.Errorf("Skip %d: expected field %s, got %v", i, want.field, skips[i].Err)
		}

		if !errors.Is(skips[i].Err, want.err) {
			t.Errorf("Skip %d: expected %v, got %v", i, want.err, skips[i].Err)
		}
	}
}
