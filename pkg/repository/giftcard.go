package repository

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/medreza/giftcard-validation-service/pkg/models"
	"github.com/medreza/giftcard-validation-service/pkg/storage"
)

var (
	ErrInvalidFormat   = errors.New("code must be 1-25 uppercase letters or digits")
	ErrInvalidStatus   = errors.New("status must be pending, accepted or declined")
	ErrInvalidAmount   = errors.New("amount must be a non-negative number")
	ErrInvalidCurrency = errors.New("currency is required")
	ErrCardNotFound    = errors.New("gift card not found")
)

const DefaultCurrency = "USD"

var codePattern = regexp.MustCompile(`^[A-Z0-9]{1,25}$`)

// Persister writes the full state after every mutation.
type Persister interface {
	Flush(snap storage.Snapshot) error
}

// GiftCardRepository holds the card registry and the global price in memory.
// A single mutex covers both and the flush that follows each mutation. A
// mutation whose flush fails is undone before the error is returned.
type GiftCardRepository struct {
	mu    sync.Mutex
	cards map[string]models.GiftCard
	order []string
	price *models.PriceRecord
	store Persister
	now   func() time.Time
}

func NewGiftCardRepository(store Persister, snap storage.Snapshot) *GiftCardRepository {
	r := &GiftCardRepository{
		cards: make(map[string]models.GiftCard, len(snap.Cards)),
		price: snap.Price,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, code := range snap.Order {
		card, ok := snap.Cards[code]
		if !ok {
			continue
		}
		if _, dup := r.cards[code]; dup {
			continue
		}
		r.cards[code] = card
		r.order = append(r.order, code)
	}
	return r
}

func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}

// Validate returns the card for code, registering it as pending on first sight.
func (r *GiftCardRepository) Validate(code string) (models.GiftCard, *models.PriceRecord, error) {
	if !ValidCode(code) {
		return models.GiftCard{}, nil, ErrInvalidFormat
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if card, ok := r.cards[code]; ok {
		return card, copyPrice(r.price), nil
	}

	card := models.GiftCard{
		Code:      code,
		Status:    models.StatusPending,
		CreatedAt: r.now(),
	}
	r.cards[code] = card
	r.order = append(r.order, code)

	if err := r.flushLocked(); err != nil {
		delete(r.cards, code)
		r.order = r.order[:len(r.order)-1]
		return models.GiftCard{}, nil, err
	}
	return card, copyPrice(r.price), nil
}

func (r *GiftCardRepository) GetAll() []models.GiftCard {
	r.mu.Lock()
	defer r.mu.Unlock()

	cards := make([]models.GiftCard, 0, len(r.order))
	for _, code := range r.order {
		cards = append(cards, r.cards[code])
	}
	return cards
}

func (r *GiftCardRepository) SetStatus(code string, status models.CardStatus) (models.GiftCard, error) {
	if !status.Valid() {
		return models.GiftCard{}, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	card, ok := r.cards[code]
	if !ok {
		return models.GiftCard{}, ErrCardNotFound
	}

	prev := card
	now := r.now()
	card.Status = status
	card.UpdatedAt = &now
	r.cards[code] = card

	if err := r.flushLocked(); err != nil {
		r.cards[code] = prev
		return models.GiftCard{}, err
	}
	return card, nil
}

// SetCardPrice sets a card-level price in the currency of the global price.
func (r *GiftCardRepository) SetCardPrice(code string, amount float64) (models.GiftCard, error) {
	if !validAmount(amount) {
		return models.GiftCard{}, ErrInvalidAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	card, ok := r.cards[code]
	if !ok {
		return models.GiftCard{}, ErrCardNotFound
	}

	currency := DefaultCurrency
	if r.price != nil {
		currency = r.price.Currency
	}

	prev := card
	now := r.now()
	card.Price = &models.CardPrice{Amount: amount, Currency: currency}
	card.UpdatedAt = &now
	r.cards[code] = card

	if err := r.flushLocked(); err != nil {
		r.cards[code] = prev
		return models.GiftCard{}, err
	}
	return card, nil
}

func (r *GiftCardRepository) Stats() models.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := models.Stats{Total: len(r.order)}
	for _, code := range r.order {
		switch r.cards[code].Status {
		case models.StatusAccepted:
			stats.Accepted++
		case models.StatusDeclined:
			stats.Declined++
		default:
			stats.Pending++
		}
	}
	return stats
}

func (r *GiftCardRepository) GetPrice() *models.PriceRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyPrice(r.price)
}

// SetGlobalPrice replaces the global price record.
func (r *GiftCardRepository) SetGlobalPrice(amount float64, currency string) (models.PriceRecord, error) {
	if !validAmount(amount) {
		return models.PriceRecord{}, ErrInvalidAmount
	}
	if strings.TrimSpace(currency) == "" {
		return models.PriceRecord{}, ErrInvalidCurrency
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	price := models.PriceRecord{
		Amount:    amount,
		Currency:  currency,
		UpdatedAt: r.now(),
	}
	prev := r.price
	r.price = &price

	if err := r.flushLocked(); err != nil {
		r.price = prev
		return models.PriceRecord{}, err
	}
	return price, nil
}

// Flush persists the current state, used on shutdown.
func (r *GiftCardRepository) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

func (r *GiftCardRepository) flushLocked() error {
	if err := r.store.Flush(r.snapshotLocked()); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

func (r *GiftCardRepository) snapshotLocked() storage.Snapshot {
	cards := make(map[string]models.GiftCard, len(r.cards))
	for code, card := range r.cards {
		cards[code] = card
	}
	order := make([]string, len(r.order))
	copy(order, r.order)
	return storage.Snapshot{Cards: cards, Order: order, Price: copyPrice(r.price)}
}

func validAmount(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0) && amount >= 0
}

func copyPrice(p *models.PriceRecord) *models.PriceRecord {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
