package filestore

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

func TestWalletStore_Users(t *testing.T) {
	s := NewWalletStore(t.TempDir())

	id, err := s.NextID()
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	u, err := domain.NewUser(id, "alice", "s3cret", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Add(u))

	got, ok, err := s.FindByUsername("alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, u.ID, got.ID)
	require.True(t, got.VerifyPassword("s3cret"))

	_, ok, err = s.FindByUsername("bob")
	require.NoError(t, err)
	require.False(t, ok)

	id, err = s.NextID()
	require.NoError(t, err)
	require.Equal(t, int64(2), id)
}

func TestWalletStore_Portfolios(t *testing.T) {
	s := NewWalletStore(t.TempDir())

	_, ok, err := s.Get(1)
	require.NoError(t, err)
	require.False(t, ok)

	pf := domain.NewPortfolio(1)
	amt, err := decimal.NewFromString("0.5")
	require.NoError(t, err)
	require.NoError(t, pf.AddCurrency("BTC").Deposit(amt))
	require.NoError(t, s.Put(pf))

	got, ok, err := s.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	w, err := got.Wallet("BTC")
	require.NoError(t, err)
	require.True(t, w.Balance.Equal(amt))

	// Put replaces the stored portfolio for the same user.
	require.NoError(t, w.Withdraw(amt))
	require.NoError(t, s.Put(got))
	got, ok, err = s.Get(1)
	require.NoError(t, err)
	require.True(t, ok)
	w, err = got.Wallet("BTC")
	require.NoError(t, err)
	require.True(t, w.Balance.IsZero())
}

func TestWalletStore_Session(t *testing.T) {
	s := NewWalletStore(t.TempDir())

	_, ok, err := s.Current()
	require.NoError(t, err)
	require.False(t, ok)

	sess := domain.Session{UserID: 1, Username: "alice", LoggedInAt: time.Now().UTC()}
	require.NoError(t, s.Save(sess))

	got, ok, err := s.Current()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, sess.UserID, got.UserID)
	require.Equal(t, "alice", got.Username)

	require.NoError(t, s.Clear())
	_, ok, err = s.Current()
	require.NoError(t, err)
	require.False(t, ok)

	// Clearing an already-absent session is not an error.
	require.NoError(t, s.Clear())
}
