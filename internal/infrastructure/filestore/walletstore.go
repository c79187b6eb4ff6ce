package filestore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/valutatrade/valutatrade-hub/internal/application"
	"github.com/valutatrade/valutatrade-hub/internal/domain"
)

const (
	usersFile      = "users.json"
	portfoliosFile = "portfolios.json"
	sessionFile    = "session.json"
)

// WalletStore keeps users, portfolios and the CLI session as JSON files
// under one data directory, with the same atomic-write discipline as the
// rate store.
type WalletStore struct {
	mu  sync.Mutex
	dir string
}

var (
	_ application.UserRepo      = (*WalletStore)(nil)
	_ application.PortfolioRepo = (*WalletStore)(nil)
	_ application.SessionStore  = (*WalletStore)(nil)
)

func NewWalletStore(dir string) *WalletStore {
	return &WalletStore{dir: dir}
}

func (s *WalletStore) path(name string) string { return filepath.Join(s.dir, name) }

func (s *WalletStore) loadUsers() []domain.User {
	var users []domain.User
	readJSONFile(s.path(usersFile), &users)
	return users
}

func (s *WalletStore) FindByUsername(username string) (domain.User, bool, error) {
	for _, u := range s.loadUsers() {
		if u.Username == username {
			return u, true, nil
		}
	}
	return domain.User{}, false, nil
}

func (s *WalletStore) NextID() (int64, error) {
	var max int64
	for _, u := range s.loadUsers() {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1, nil
}

func (s *WalletStore) Add(u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := append(s.loadUsers(), u)
	return writeFileAtomic(s.path(usersFile), users)
}

func (s *WalletStore) loadPortfolios() []domain.Portfolio {
	var portfolios []domain.Portfolio
	readJSONFile(s.path(portfoliosFile), &portfolios)
	return portfolios
}

func (s *WalletStore) Get(userID int64) (domain.Portfolio, bool, error) {
	for _, p := range s.loadPortfolios() {
		if p.UserID == userID {
			if p.Wallets == nil {
				p.Wallets = map[string]*domain.Wallet{}
			}
			return p, true, nil
		}
	}
	return domain.Portfolio{}, false, nil
}

func (s *WalletStore) Put(p domain.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	portfolios := s.loadPortfolios()
	replaced := false
	for i := range portfolios {
		if portfolios[i].UserID == p.UserID {
			portfolios[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		portfolios = append(portfolios, p)
	}
	return writeFileAtomic(s.path(portfoliosFile), portfolios)
}

func (s *WalletStore) Current() (domain.Session, bool, error) {
	var sess domain.Session
	if !readJSONFile(s.path(sessionFile), &sess) || sess.UserID == 0 {
		return domain.Session{}, false, nil
	}
	return sess, true, nil
}

func (s *WalletStore) Save(sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeFileAtomic(s.path(sessionFile), sess)
}

func (s *WalletStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(sessionFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &domain.StorageError{Op: "remove", Path: s.path(sessionFile), Err: err}
	}
	return nil
}
