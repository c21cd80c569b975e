package profile

import (
	"gorm.io/gorm"

	"github.com/stockdraft/api-server/internals/leagues"
	"github.com/stockdraft/api-server/pkg/kvstore"
)

type ProfileService struct {
	KV kvstore.KVStore
	DB *gorm.DB
	LS *leagues.LeagueService
}

func New(kv kvstore.KVStore, db *gorm.DB, ls *leagues.LeagueService) *ProfileService {
	return &ProfileService{
		KV: kv,
		DB: db,
		LS: ls,
	}
}

func (ps *ProfileService) GetProfile(userID int) (CompleteProfile, error) {
	var completeProfile CompleteProfile
	err := ps.DB.Table("users").Select("user_id, user_name, mail_id").Where("user_id = ?", userID).Scan(&completeProfile.Profile).Error
	if err != nil {
		return completeProfile, err
	}

	myLeagues, err := ps.LS.GetMyLeagues(userID)
	if err != nil {
		return completeProfile, err
	}

	completeProfile.Leagues = myLeagues
	return completeProfile, nil
}
