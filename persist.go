package relaycore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/relaycore/history"
	"github.com/opd-ai/relaycore/storage"
)

// Blob names in the persistence adapter. Both snapshots are read wholesale
// at startup and rewritten wholesale after every relevant mutation.
const (
	blobContacts = "contacts"
	blobHistory  = "history"
)

// restore loads both snapshots. A missing blob means empty state; anything
// unreadable aborts startup rather than silently discarding history.
func (b *Broker) restore() error {
	if data, err := b.store.Load(blobContacts); err == nil {
		var snapshot map[string][]string
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return fmt.Errorf("decode contacts snapshot: %w", err)
		}
		b.contacts.Restore(snapshot)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load contacts snapshot: %w", err)
	}

	if data, err := b.store.Load(blobHistory); err == nil {
		var snapshot map[string]map[string][]history.Message
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return fmt.Errorf("decode history snapshot: %w", err)
		}
		b.messages.Restore(snapshot)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load history snapshot: %w", err)
	}

	return nil
}

// saveContacts rewrites the contact-graph snapshot. Persistence failures are
// logged, never surfaced to clients: in-memory state stays authoritative
// until the next successful write.
func (b *Broker) saveContacts() {
	data, err := json.Marshal(b.contacts.Snapshot())
	if err != nil {
		logrus.WithError(err).Error("encoding contacts snapshot")
		return
	}
	if err := b.store.Save(blobContacts, data); err != nil {
		logrus.WithError(err).Error("persisting contacts snapshot")
	}
}

// saveHistory rewrites the message-history snapshot, same failure policy as
// saveContacts.
func (b *Broker) saveHistory() {
	data, err := json.Marshal(b.messages.Snapshot())
	if err != nil {
		logrus.WithError(err).Error("encoding history snapshot")
		return
	}
	if err := b.store.Save(blobHistory, data); err != nil {
		logrus.WithError(err).Error("persisting history snapshot")
	}
}
