package access

import (
	"context"

	"github.com/Nbuilt/ish-vaqti-bot/internal/phone"
)

// AllowList is the slice of the ledger the gate needs.
type AllowList interface {
	ReadAccessList(ctx context.Context) (map[string]bool, error)
}

// Decision carries the normalized phone back even on denial, so the caller
// can echo exactly what was compared against the allow-list.
type Decision struct {
	Allowed bool
	Phone   string
}

type Gate struct {
	list AllowList
}

func NewGate(list AllowList) *Gate {
	return &Gate{list: list}
}

// Authorize normalizes rawPhone and checks it against a fresh allow-list
// snapshot. Decisions are never cached: membership can be revoked between
// sessions, so each re-check is deliberate.
func (g *Gate) Authorize(ctx context.Context, rawPhone string) (Decision, error) {
	p := phone.Normalize(rawPhone)
	if p == "" {
		return Decision{Phone: p}, nil
	}
	allow, err := g.list.ReadAccessList(ctx)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: allow[p], Phone: p}, nil
}
