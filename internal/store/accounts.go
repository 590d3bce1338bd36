package store

import (
	"context"

	"github.com/msomdec/campus-market/internal/domain"
)

// Accounts implements domain.AccountRepository.
type Accounts struct {
	kv domain.KeyValueStore
}

var _ domain.AccountRepository = (*Accounts)(nil)

func NewAccounts(kv domain.KeyValueStore) *Accounts {
	return &Accounts{kv: kv}
}

// Load never returns a nil map.
func (s *Accounts) Load(ctx context.Context) (domain.Accounts, error) {
	accounts, err := load[domain.Accounts](ctx, s.kv, KeyAccounts)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = domain.Accounts{}
	}
	return accounts, nil
}

func (s *Accounts) Save(ctx context.Context, accounts domain.Accounts) error {
	return save(ctx, s.kv, KeyAccounts, accounts)
}
