package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/recharge-store-backend/internal/domain/account"
)

// AdminLookup resolves whether an account is the distinguished administrative
// account, which sees the global ledger feed and is exempt from debits
type AdminLookup interface {
	IsAdmin(ctx context.Context, accountID uuid.UUID) (bool, error)
}

// EmailAdminLookup identifies the administrative account by its configured email
type EmailAdminLookup struct {
	accountRepo account.Repository
	adminEmail  string
}

// NewEmailAdminLookup creates an AdminLookup backed by the account repository
func NewEmailAdminLookup(accountRepo account.Repository, adminEmail string) *EmailAdminLookup {
	return &EmailAdminLookup{
		accountRepo: accountRepo,
		adminEmail:  strings.ToLower(strings.TrimSpace(adminEmail)),
	}
}

// IsAdmin reports whether the account carries the administrative email.
// Unknown accounts are not administrators.
func (l *EmailAdminLookup) IsAdmin(ctx context.Context, accountID uuid.UUID) (bool, error) {
	acc, err := l.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			return false, nil
		}
		return false, err
	}
	return l.IsAdminEmail(acc.Email), nil
}

// IsAdminEmail reports whether the given email is the administrative one
func (l *EmailAdminLookup) IsAdminEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(email), l.adminEmail)
}
