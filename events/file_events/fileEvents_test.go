package file_events

import (
	"context"
	"crypto/ed25519"
	"os"
	"testing"

	"github.com/hoepeyemi/fusee-sub001/events"

	"lukechampine.com/frand"
)

func TestFileEvents_Publish(t *testing.T) {
	N := 10
	var testFile = "/tmp/fusee_test_file_events"
	fe, err := NewFileEvents(testFile)
	if err != nil {
		t.Error(err)
	}
	defer fe.Close()
	defer os.Remove(testFile)

	ctx := context.Background()
	for i := 0; i < N; i++ {
		event, err := events.New(events.KindApprovalRecorded, map[string]interface{}{
			"nonce": frand.Bytes(10),
		})
		if err != nil {
			t.Error(err)
		}
		event.ProposalID = "proposal-1"

		if err := fe.Publish(ctx, event); err != nil {
			t.Error(err)
		}
	}

	evts, err := fe.GetEvents(0)
	if err != nil {
		t.Error(err)
	}
	if len(evts) != N {
		t.Errorf("expected %d events, got %d", N, len(evts))
	}
	for i, event := range evts {
		if event.Offset != uint64(i) {
			t.Errorf("expected offset %d, got %d", i, event.Offset)
		}
		if event.Kind != events.KindApprovalRecorded {
			t.Errorf("unexpected kind %s", event.Kind)
		}
	}

	tail, err := fe.GetEvents(7)
	if err != nil {
		t.Error(err)
	}
	if len(tail) != N-7 {
		t.Errorf("expected %d events from offset 7, got %d", N-7, len(tail))
	}
}

func TestSigningPublisher(t *testing.T) {
	var testFile = "/tmp/fusee_test_signed_events"
	fe, err := NewFileEvents(testFile)
	if err != nil {
		t.Error(err)
	}
	defer fe.Close()
	defer os.Remove(testFile)

	pubKey, privKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Error(err)
	}

	signed := events.NewSigningPublisher(fe, privKey)

	event, err := events.New(events.KindProposalExecuted, map[string]string{"tx_hash": "fe12"})
	if err != nil {
		t.Error(err)
	}
	event.MultisigID = "multisig-1"

	if err := signed.Publish(context.Background(), event); err != nil {
		t.Error(err)
	}

	evts, err := fe.GetEvents(0)
	if err != nil {
		t.Error(err)
	}
	if len(evts) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evts))
	}

	ok, err := evts[0].Verify(pubKey)
	if err != nil {
		t.Error(err)
	}
	if !ok {
		t.Error("signature did not verify against the node public key")
	}

	otherPub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Error(err)
	}
	ok, err = evts[0].Verify(otherPub)
	if err != nil {
		t.Error(err)
	}
	if ok {
		t.Error("signature verified against a foreign public key")
	}
}
