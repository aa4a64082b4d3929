package store

import (
	"context"
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GormCatalogStore is the document database implementation of CatalogStore.
type GormCatalogStore struct {
	db *gorm.DB
}

func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

func (s *GormCatalogStore) List(ctx context.Context) ([]domain.Game, error) {
	var games []domain.Game
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (s *GormCatalogStore) Get(ctx context.Context, id int64) (*domain.Game, error) {
	var game domain.Game
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *GormCatalogStore) Upsert(ctx context.Context, game *domain.Game) error {
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now()
	}
	game.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Save(game).Error
}

func (s *GormCatalogStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Game{}).Error
}

// GormAccountStore is the document database implementation of AccountStore.
type GormAccountStore struct {
	db *gorm.DB
}

func NewGormAccountStore(db *gorm.DB) *GormAccountStore {
	return &GormAccountStore{db: db}
}

func (s *GormAccountStore) Get(ctx context.Context, id string) (*domain.Account, error) {
	var acct domain.Account
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *GormAccountStore) List(ctx context.Context) ([]domain.Account, error) {
	var accts []domain.Account
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&accts).Error; err != nil {
		return nil, err
	}
	return accts, nil
}

func (s *GormAccountStore) Upsert(ctx context.Context, acct *domain.Account) error {
	var existing domain.Account
	err := s.db.WithContext(ctx).Where("id = ?", acct.ID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if acct.CreatedAt.IsZero() {
			acct.CreatedAt = time.Now()
		}
	case err != nil:
		return err
	default:
		mergeAccount(acct, &existing)
	}
	acct.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Save(acct).Error
}

func (s *GormAccountStore) DeleteByName(ctx context.Context, username string) error {
	return s.db.WithContext(ctx).Where("username = ?", username).Delete(&domain.Account{}).Error
}

func (s *GormAccountStore) FindByDisplayName(ctx context.Context, username string) (*domain.Account, error) {
	var acct domain.Account
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}
