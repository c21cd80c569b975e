package profile

import "github.com/stockdraft/api-server/internals/leagues"

type Profile struct {
	UserID   int    `json:"user_id"`
	UserName string `json:"user_name"`
	MailID   string `json:"mail_id"`
}

type CompleteProfile struct {
	Profile Profile          `json:"profile"`
	Leagues []leagues.League `json:"leagues"`
}
