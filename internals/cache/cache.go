// Package cache backfills redis from postgres when a hot key is missing.
package cache

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/stockdraft/api-server/pkg/kvstore"
)

type CacheService struct {
	DB *gorm.DB
	KV kvstore.KVStore
}

func New(db *gorm.DB, kv kvstore.KVStore) *CacheService {
	return &CacheService{
		DB: db,
		KV: kv,
	}
}

// LoadUserPurse reads the purse row and primes the purse_{user}_{league}
// key, returning the balance it cached.
func (c *CacheService) LoadUserPurse(leagueID string, userID int) (float64, error) {
	var result struct {
		Balance float64
		Found   int
	}

	err := c.DB.Raw("SELECT balance, 1 AS found FROM purse WHERE user_id = ? AND league_id = ?", userID, leagueID).Scan(&result).Error
	if err != nil {
		return 0, err
	}
	if result.Found == 0 {
		return 0, fmt.Errorf("no purse for user %d in league %s", userID, leagueID)
	}

	key := "purse_" + strconv.Itoa(userID) + "_" + leagueID
	value := strconv.FormatFloat(result.Balance, 'f', 2, 64)

	if err := c.KV.Set(key, value); err != nil {
		return 0, err
	}
	return result.Balance, nil
}
