// Package storage mirrors the in-memory gift card state to JSON files.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/medreza/giftcard-validation-service/pkg/models"
	"github.com/sirupsen/logrus"
)

const (
	CardsFile = "cards.json"
	PriceFile = "price.json"
)

// Snapshot is the full persisted state. Order lists card codes in insertion order.
type Snapshot struct {
	Cards map[string]models.GiftCard
	Order []string
	Price *models.PriceRecord
}

type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

// Load reads both documents. Missing files mean no data yet. Unreadable or
// malformed files are logged, moved aside and treated as missing.
func (s *FileStore) Load() (Snapshot, error) {
	snap := Snapshot{Cards: make(map[string]models.GiftCard)}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return snap, fmt.Errorf("failed to create data directory: %w", err)
	}

	cards, order, err := s.loadCards()
	if err != nil {
		s.quarantine(CardsFile, err)
	} else {
		snap.Cards = cards
		snap.Order = order
	}

	price, err := s.loadPrice()
	if err != nil {
		s.quarantine(PriceFile, err)
	} else {
		snap.Price = price
	}

	logrus.WithFields(logrus.Fields{
		"data_dir": s.dir,
		"cards":    len(snap.Order),
		"price":    snap.Price != nil,
	}).Info("Loaded persisted state")

	return snap, nil
}

// Flush overwrites both documents with the given state.
func (s *FileStore) Flush(snap Snapshot) error {
	cards, err := encodeCards(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(CardsFile), cards, 0o644); err != nil {
		return fmt.Errorf("failed to write cards: %w", err)
	}

	price, err := json.MarshalIndent(snap.Price, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode price: %w", err)
	}
	if err := os.WriteFile(s.path(PriceFile), append(price, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write price: %w", err)
	}
	return nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *FileStore) quarantine(name string, cause error) {
	log := logrus.WithField("file", s.path(name)).WithError(cause)

	backup := fmt.Sprintf("%s.corrupt-%d", s.path(name), s.now().Unix())
	if err := os.Rename(s.path(name), backup); err != nil {
		log.WithField("rename_error", err).Error("Failed to load persisted file, starting empty")
		return
	}
	log.WithField("backup", backup).Error("Failed to load persisted file, moved aside and starting empty")
}

func (s *FileStore) loadCards() (map[string]models.GiftCard, []string, error) {
	cards := make(map[string]models.GiftCard)

	data, err := os.ReadFile(s.path(CardsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cards, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read cards: %w", err)
	}

	// decode token by token so the key order of the file becomes the insertion order
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return cards, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	if tok == nil {
		return cards, nil, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("failed to decode cards: expected object, got %v", tok)
	}

	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode card key: %w", err)
		}
		code, _ := keyTok.(string)

		var card models.GiftCard
		if err := dec.Decode(&card); err != nil {
			return nil, nil, fmt.Errorf("failed to decode card %q: %w", code, err)
		}
		if card.Code == "" {
			card.Code = code
		}
		if _, dup := cards[code]; !dup {
			order = append(order, code)
		}
		cards[code] = card
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("failed to decode cards: %w", err)
	}

	return cards, order, nil
}

func (s *FileStore) loadPrice() (*models.PriceRecord, error) {
	data, err := os.ReadFile(s.path(PriceFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read price: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var price *models.PriceRecord
	if err := json.Unmarshal(data, &price); err != nil {
		return nil, fmt.Errorf("failed to decode price: %w", err)
	}
	return price, nil
}

func encodeCards(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	written := 0
	for _, code := range snap.Order {
		card, ok := snap.Cards[code]
		if !ok {
			continue
		}
		key, err := json.Marshal(code)
		if err != nil {
			return nil, fmt.Errorf("failed to encode card key: %w", err)
		}
		value, err := json.MarshalIndent(card, "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode card %q: %w", code, err)
		}
		if written > 0 {
			buf.WriteString(",")
		}
		written++
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
	}
	if written > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
