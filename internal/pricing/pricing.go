package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const CurrencyINR = "INR"

var (
	hundred = decimal.NewFromInt(100)

	ErrEmptyTable = errors.New("pricing table has no plans")
)

// Plan is one purchasable package. Price is in major units (rupees).
type Plan struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Currency string
}

// AmountMinor converts the price to minor units (paise), rounded half away from zero.
func (p Plan) AmountMinor() int64 {
	return p.Price.Mul(hundred).Round(0).IntPart()
}

func (p Plan) DisplayPrice() string {
	return FormatMinor(p.AmountMinor(), p.Currency)
}

// Table is an immutable, versioned plan catalogue. Safe for concurrent reads.
type Table struct {
	version string
	plans   map[string]Plan
	order   []string
}

func NewTable(version string, plans []Plan) (*Table, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil, errors.New("pricing table version is required")
	}
	if len(plans) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{
		version: version,
		plans:   make(map[string]Plan, len(plans)),
		order:   make([]string, 0, len(plans)),
	}

	for _, p := range plans {
		p.ID = normalizeID(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))

		if p.ID == "" {
			return nil, errors.New("plan id is required")
		}
		if _, dup := t.plans[p.ID]; dup {
			return nil, fmt.Errorf("duplicate plan id %q", p.ID)
		}
		if !p.Price.IsPositive() {
			return nil, fmt.Errorf("plan %q: price must be positive", p.ID)
		}
		if !p.Price.Equal(p.Price.Round(2)) {
			return nil, fmt.Errorf("plan %q: price %s has more than two decimals", p.ID, p.Price)
		}
		if p.Currency != CurrencyINR {
			return nil, fmt.Errorf("plan %q: unsupported currency %q", p.ID, p.Currency)
		}
		if p.Name == "" {
			p.Name = p.ID
		}

		t.plans[p.ID] = p
		t.order = append(t.order, p.ID)
	}

	sort.Strings(t.order)
	return t, nil
}

func (t *Table) Version() string {
	return t.version
}

// Lookup resolves a client supplied plan id. Ids are matched case-insensitively.
func (t *Table) Lookup(planID string) (Plan, bool) {
	p, ok := t.plans[normalizeID(planID)]
	return p, ok
}

// Plans returns a copy sorted by id.
func (t *Table) Plans() []Plan {
	out := make([]Plan, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.plans[id])
	}
	return out
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
