package credit

import (
	"context"

	"github.com/google/uuid"
)

// Service exposes read access to a user's credit state. Balance mutations
// happen inside the consumption gate and the purchase reconciler, which use
// the Repository directly so the writes share a transaction with their
// side effects.
type Service interface {
	Balances(ctx context.Context, userID uuid.UUID) (map[Type]int, error)
	Transactions(ctx context.Context, userID uuid.UUID, p Pagination) ([]Transaction, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Balances(ctx context.Context, userID uuid.UUID) (map[Type]int, error) {
	return s.repo.GetBalances(ctx, userID.String())
}

func (s *service) Transactions(ctx context.Context, userID uuid.UUID, p Pagination) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, userID.String(), p)
}
