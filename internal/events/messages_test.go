package events

import (
	"testing"
	"time"
)

func TestTransactionEventMessageRoundtrip(t *testing.T) {
	msg := NewTransactionEventMessage(TransactionCreated, "tx-42")
	if msg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back, err := TransactionEventMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Type != TransactionCreated || back.TransactionID != "tx-42" {
		t.Fatalf("roundtrip mismatch: %+v", back)
	}
	if !back.Timestamp.Truncate(time.Millisecond).Equal(msg.Timestamp.Truncate(time.Millisecond)) {
		t.Fatalf("timestamp mismatch: %v vs %v", back.Timestamp, msg.Timestamp)
	}
}

func TestTransactionEventMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := TransactionEventMessageFromJSON([]byte(`{broken`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
