// Package events defines the audit event stream. Every governance state
// transition emits one event; publishers deliver them to an append-only
// sink (file or Kafka) so the approval history can be replayed and audited
// independently of the store.
package events

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindMultisigCreated    = Kind("multisig_created")
	KindSignerAdded        = Kind("signer_added")
	KindSignerFlagged      = Kind("signer_flagged")
	KindSignerDeactivated  = Kind("signer_deactivated")
	KindProposalCreated    = Kind("proposal_created")
	KindApprovalRecorded   = Kind("approval_recorded")
	KindThresholdReached   = Kind("threshold_reached")
	KindProposalRejected   = Kind("proposal_rejected")
	KindProposalCancelled  = Kind("proposal_cancelled")
	KindProposalExecuted   = Kind("proposal_executed")
	KindExecutionFailed    = Kind("execution_failed")
	KindExecutionAmbiguous = Kind("execution_ambiguous")
)

type Event struct {
	ID            string          `json:"id"`
	Kind          Kind            `json:"kind"`
	MultisigID    string          `json:"multisig_id,omitempty"`
	ProposalID    string          `json:"proposal_id,omitempty"`
	MemberID      string          `json:"member_id,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Offset        uint64          `json:"offset"`
	NodeSignature []byte          `json:"node_signature,omitempty"`
}

// New builds an unsigned event with a fresh id. A nil payload is allowed.
func New(kind Kind, payload interface{}) (Event, error) {
	event := Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return event, fmt.Errorf("failed to marshal event payload: %w", err)
		}
		event.Payload = data
	}
	return event, nil
}

// SigningData is the canonical byte form covered by NodeSignature: the event
// without its signature and without the sink-assigned offset.
func (e *Event) SigningData() ([]byte, error) {
	stripped := *e
	stripped.NodeSignature = nil
	stripped.Offset = 0

	data, err := json.Marshal(&stripped)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event for signing: %w", err)
	}
	return data, nil
}

// Verify checks NodeSignature against the given node public key.
func (e *Event) Verify(pubKey ed25519.PublicKey) (bool, error) {
	data, err := e.SigningData()
	if err != nil {
		return false, err
	}
	return ed25519.Verify(pubKey, data, e.NodeSignature), nil
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// SigningPublisher signs every event with the node identity key before
// handing it to the underlying sink.
type SigningPublisher struct {
	inner   Publisher
	privKey ed25519.PrivateKey
}

func NewSigningPublisher(inner Publisher, privKey ed25519.PrivateKey) *SigningPublisher {
	return &SigningPublisher{
		inner:   inner,
		privKey: privKey,
	}
}

func (p *SigningPublisher) Publish(ctx context.Context, evts ...Event) error {
	for i := range evts {
		data, err := evts[i].SigningData()
		if err != nil {
			return err
		}
		evts[i].NodeSignature = ed25519.Sign(p.privKey, data)
	}
	return p.inner.Publish(ctx, evts...)
}

func (p *SigningPublisher) Close() error {
	return p.inner.Close()
}
