package supplychain

import (
	"strings"
	"testing"
)

// shipment is the record type used by the adapter tests. Encrypted
// envelope parts live alongside the plaintext fields, the way a
// persistence layer would store them.
type shipment struct {
	ID         string
	OriginFarm string
	Contents   string

	Encrypted EncryptedFields
}

func shipmentFields() []Field[shipment] {
	return []Field[shipment]{
		{
			Name: "originFarm",
			Get:  func(s *shipment) any { return s.OriginFarm },
			Set:  func(s *shipment, v any) { s.OriginFarm, _ = v.(string) },
		},
		{
			Name: "contents",
			Get:  func(s *shipment) any { return s.Contents },
			Set:  func(s *shipment, v any) { s.Contents, _ = v.(string) },
		},
	}
}

func newShipmentCrypter(t *testing.T) *RecordCrypter[shipment] {
	t.Helper()
	crypter, err := NewRecordCrypter(newTestProvider(t), shipmentFields()...)
	if err != nil {
		t.Fatalf("NewRecordCrypter() error = %v", err)
	}
	return crypter
}

func TestNewRecordCrypter_Validation(t *testing.T) {
	t.Parallel()
	provider := newTestProvider(t)

	get := func(s *shipment) any { return s.OriginFarm }
	set := func(s *shipment, v any) {}

	tests := []struct {
		name    string
		fields  []Field[shipment]
		wantErr string
	}{
		{"no fields", nil, "at least one"},
		{"empty name", []Field[shipment]{{Get: get, Set: set}}, "empty name"},
		{"duplicate name", []Field[shipment]{
			{Name: "f", Get: get, Set: set},
			{Name: "f", Get: get, Set: set},
		}, "duplicate"},
		{"missing accessor", []Field[shipment]{{Name: "f", Get: get}}, "accessors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecordCrypter(provider, tt.fields...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := NewRecordCrypter[shipment](nil, shipmentFields()...); err == nil {
		t.Error("expected error for nil provider")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	t.Parallel()
	crypter := newShipmentCrypter(t)

	record := shipment{ID: "S-1", OriginFarm: "Organic Wheat Collective", Contents: "Organic Wheat"}
	if err := crypter.Seal(&record, &record.Encrypted, nil); err != nil {
		t.Fatalf("Seal() error = %v", err)
	}

	for _, name := range []string{"originFarm", "contents"} {
		if !record.Encrypted.Has(name) {
			t.Errorf("no envelope stored for %q", name)
		}
		if len(record.Encrypted.IV[name]) != 32 {
			t.Errorf("IV for %q = %d hex chars, want 32", name, len(record.Encrypted.IV[name]))
		}
	}

	// Simulate what the persistence layer stores: envelopes only.
	loaded := shipment{ID: "S-1", Encrypted: record.Encrypted}

	snapshot, err := crypter.Open(&loaded, &loaded.Encrypted)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if loaded.OriginFarm != "Organic Wheat Collective" {
		t.Errorf("OriginFarm = %q", loaded.OriginFarm)
	}
	if loaded.Contents != "Organic Wheat" {
		t.Errorf("Contents = %q", loaded.Contents)
	}
	if snapshot["originFarm"] != "Organic Wheat Collective" {
		t.Errorf("snapshot missing originFarm baseline")
	}
}

func TestSeal_UnmodifiedFieldStable(t *testing.T) {
	t.Parallel()
	crypter := newShipmentCrypter(t)

	record := shipment{OriginFarm: "Plot 12", Contents: "Wheat"}
	if err := crypter.Seal(&record, &record.Encrypted, nil); err != nil {
		t.Fatal(err)
	}

	snapshot, err := crypter.Open(&record, &record.Encrypted)
	if err != nil {
		t.Fatal(err)
	}

	before := map[string][3]string{}
	for _, name := range []string{"originFarm", "contents"} {
		before[name] = [3]string{
			record.Encrypted.CtKem[name],
			record.Encrypted.Data[name],
			record.Encrypted.IV[name],
		}
	}

	// Saving again without modifications must not re-encrypt anything.
	if err := crypter.Seal(&record, &record.Encrypted, snapshot); err != nil {
		t.Fatal(err)
	}

	for name, parts := range before {
		after := [3]string{
			record.Encrypted.CtKem[name],
			record.Encrypted.Data[name],
			record.Encrypted.IV[name],
		}
		if after != parts {
			t.Errorf("envelope for %q changed on a no-op save", name)
		}
	}
}

func TestSeal_ModifiedFieldReencrypted(t *testing.T) {
	t.Parallel()
	crypter := newShipmentCrypter(t)

	record := shipment{OriginFarm: "Plot 12", Contents: "Wheat"}
	if err := crypter.Seal(&record, &record.Encrypted, nil); err != nil {
		t.Fatal(err)
	}
	snapshot, err := crypter.Open(&record, &record.Encrypted)
	if err != nil {
		t.Fatal(err)
	}

	farmBefore := record.Encrypted.Data["originFarm"]
	contentsBefore := record.Encrypted.Data["contents"]

	record.OriginFarm = "Plot 13"
	if err := crypter.Seal(&record, &record.Encrypted, snapshot); err != nil {
		t.Fatal(err)
	}

	if record.Encrypted.Data["originFarm"] == farmBefore {
		t.Error("modified field kept its old envelope")
	}
	if record.Encrypted.Data["contents"] != contentsBefore {
		t.Error("unmodified field was re-encrypted")
	}

	// The updated envelope decrypts to the new value.
	loaded := shipment{Encrypted: record.Encrypted}
	if _, err := crypter.Open(&loaded, &loaded.Encrypted); err != nil {
		t.Fatal(err)
	}
	if loaded.OriginFarm != "Plot 13" {
		t.Errorf("OriginFarm = %q, want %q", loaded.OriginFarm, "Plot 13")
	}
}

func TestSeal_AbsentValueSkipped(t *testing.T) {
	t.Parallel()
	crypter := newShipmentCrypter(t)

	record := shipment{OriginFarm: "Plot 12"} // Contents empty
	if err := crypter.Seal(&record, &record.Encrypted, nil); err != nil {
		t.Fatal(err)
	}

	if record.Encrypted.Has("contents") {
		t.Error("empty field was encrypted")
	}
	if !record.Encrypted.Has("originFarm") {
		t.Error("present field was not encrypted")
	}
}

func TestSeal_NilStorage(t *testing.T) {
	t.Parallel()
	crypter := newShipmentCrypter(t)

	record := shipment{OriginFarm: "Plot 12"}
	if err := crypter.Seal(&record, nil, nil); err == nil {
		t.Error("expected error for nil storage")
	}
}

func TestOpen_LegacyPlaintextRecord(t *testing.T) {
	t.Parallel()
	crypter := newShipmentCrypter(t)

	// A record persisted before encryption existed: plaintext values,
	// no envelopes. Open must pass it through untouched.
	record := shipment{OriginFarm: "Legacy Farm", Contents: "Legacy Wheat"}
	snapshot, err := crypter.Open(&record, &record.Encrypted)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if record.OriginFarm != "Legacy Farm" || record.Contents != "Legacy Wheat" {
		t.Error("legacy plaintext values disturbed")
	}

	// The snapshot still baselines the plaintext, so the next save
	// encrypts it.
	if err := crypter.Seal(&record, &record.Encrypted, snapshot); err != nil {
		t.Fatal(err)
	}
	if !record.Encrypted.Has("originFarm") {
		t.Error("legacy field not encrypted on save")
	}
}

func TestOpen_CorruptFieldContained(t *testing.T) {
	t.Parallel()
	crypter := newShipmentCrypter(t)

	record := shipment{OriginFarm: "Plot 12", Contents: "Wheat"}
	if err := crypter.Seal(&record, &record.Encrypted, nil); err != nil {
		t.Fatal(err)
	}

	// Corrupt one field's symmetric ciphertext.
	record.Encrypted.Data["originFarm"] = "@@@not base64@@@"

	loaded := shipment{Encrypted: record.Encrypted}
	if _, err := crypter.Open(&loaded, &loaded.Encrypted); err != nil {
		t.Fatalf("Open() error = %v; per-field failures must be contained", err)
	}

	// The corrupt field falls back to its stored (empty) value; the
	// healthy field still decrypts.
	if loaded.OriginFarm != "" {
		t.Errorf("corrupt field produced %q", loaded.OriginFarm)
	}
	if loaded.Contents != "Wheat" {
		t.Errorf("healthy field = %q, want %q", loaded.Contents, "Wheat")
	}
}

func TestProject(t *testing.T) {
	t.Parallel()
	crypter := newShipmentCrypter(t)

	record := shipment{OriginFarm: "Plot 12", Contents: "Wheat"}
	if err := crypter.Seal(&record, &record.Encrypted, nil); err != nil {
		t.Fatal(err)
	}

	loaded := shipment{Encrypted: record.Encrypted}
	if err := crypter.Project(&loaded, &loaded.Encrypted); err != nil {
		t.Fatalf("Project() error = %v", err)
	}

	if loaded.OriginFarm != "Plot 12" {
		t.Errorf("OriginFarm = %q", loaded.OriginFarm)
	}
	if loaded.Encrypted.Has("originFarm") || loaded.Encrypted.CtKem != nil {
		t.Error("projection left raw envelope parts behind")
	}
}

func TestSeal_StructuredField(t *testing.T) {
	t.Parallel()
	provider := newTestProvider(t)

	type batch struct {
		Meta      map[string]any
		Encrypted EncryptedFields
	}

	crypter, err := NewRecordCrypter(provider, Field[batch]{
		Name: "meta",
		Get:  func(b *batch) any { return b.Meta },
		Set: func(b *batch, v any) {
			if m, ok := v.(map[string]any); ok {
				b.Meta = m
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	record := batch{Meta: map[string]any{"grade": "A", "moisture": float64(12)}}
	if err := crypter.Seal(&record, &record.Encrypted, nil); err != nil {
		t.Fatal(err)
	}

	loaded := batch{Encrypted: record.Encrypted}
	if _, err := crypter.Open(&loaded, &loaded.Encrypted); err != nil {
		t.Fatal(err)
	}

	if loaded.Meta["grade"] != "A" || loaded.Meta["moisture"] != float64(12) {
		t.Errorf("structured field round trip = %#v", loaded.Meta)
	}
}
