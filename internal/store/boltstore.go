package store

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	jsoniter "github.com/json-iterator/go"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	bucketGames    = []byte("games")
	bucketAccounts = []byte("accounts")
)

// BoltStore is the embedded backend. It keeps the same document shapes as the
// database backend inside a single bbolt file, one value per document,
// encoded as JSON.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the store file and ensures buckets exist.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketGames); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketAccounts)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Catalog returns the CatalogStore view of the file.
func (s *BoltStore) Catalog() *BoltCatalogStore {
	return &BoltCatalogStore{db: s.db}
}

// Accounts returns the AccountStore view of the file.
func (s *BoltStore) Accounts() *BoltAccountStore {
	return &BoltAccountStore{db: s.db}
}

// gameKey encodes ids big endian so bucket iteration yields catalog order.
func gameKey(id int64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], uint64(id))
	return key[:]
}

type BoltCatalogStore struct {
	db *bolt.DB
}

func (s *BoltCatalogStore) List(_ context.Context) ([]domain.Game, error) {
	var games []domain.Game
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGames).ForEach(func(_, v []byte) error {
			var g domain.Game
			if err := json.Unmarshal(v, &g); err != nil {
				return err
			}
			games = append(games, g)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (s *BoltCatalogStore) Get(_ context.Context, id int64) (*domain.Game, error) {
	var game *domain.Game
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketGames).Get(gameKey(id))
		if v == nil {
			return ErrGameNotFound
		}
		game = new(domain.Game)
		return json.Unmarshal(v, game)
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

func (s *BoltCatalogStore) Upsert(_ context.Context, game *domain.Game) error {
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now()
	}
	game.UpdatedAt = time.Now()
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(game)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketGames).Put(gameKey(game.ID), data)
	})
}

func (s *BoltCatalogStore) Delete(_ context.Context, id int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGames).Delete(gameKey(id))
	})
}

type BoltAccountStore struct {
	db *bolt.DB
}

func (s *BoltAccountStore) Get(_ context.Context, id string) (*domain.Account, error) {
	var acct *domain.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketAccounts).Get([]byte(id))
		if v == nil {
			return ErrAccountNotFound
		}
		acct = new(domain.Account)
		return json.Unmarshal(v, acct)
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

func (s *BoltAccountStore) List(_ context.Context) ([]domain.Account, error) {
	var accts []domain.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(_, v []byte) error {
			var a domain.Account
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			accts = append(accts, a)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return accts, nil
}

func (s *BoltAccountStore) Upsert(_ context.Context, acct *domain.Account) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketAccounts)
		if v := bucket.Get([]byte(acct.ID)); v != nil {
			var existing domain.Account
			if err := json.Unmarshal(v, &existing); err != nil {
				return err
			}
			mergeAccount(acct, &existing)
		} else if acct.CreatedAt.IsZero() {
			acct.CreatedAt = time.Now()
		}
		acct.UpdatedAt = time.Now()
		data, err := json.Marshal(acct)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(acct.ID), data)
	})
}

func (s *BoltAccountStore) DeleteByName(_ context.Context, username string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketAccounts)
		var keys [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			var a domain.Account
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			if a.Username == username {
				key := make([]byte, len(k))
				copy(key, k)
				keys = append(keys, key)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := bucket.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltAccountStore) FindByDisplayName(_ context.Context, username string) (*domain.Account, error) {
	var acct *domain.Account
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(_, v []byte) error {
			var a domain.Account
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			if acct == nil && a.Username == username {
				a2 := a
				acct = &a2
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}
	return acct, nil
}
