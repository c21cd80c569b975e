package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id SERIAL PRIMARY KEY,
		user_name VARCHAR(64) NOT NULL UNIQUE,
		password_hash VARCHAR(128) NOT NULL,
		mail_id VARCHAR(128) NOT NULL UNIQUE,
		created_at TIMESTAMPTZ DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS leagues (
		league_id CHAR(8) PRIMARY KEY,
		league_name VARCHAR(64) NOT NULL,
		num_participants INT NOT NULL,
		num_rounds INT NOT NULL,
		budget_mode VARCHAR(10) NOT NULL DEFAULT 'no-budget' CHECK (budget_mode IN ('budget', 'no-budget')),
		budget_amount NUMERIC NOT NULL DEFAULT 0,
		registered INT NOT NULL DEFAULT 0,
		users_registered TEXT NOT NULL DEFAULT '',
		league_status VARCHAR(10) NOT NULL DEFAULT 'open' CHECK (league_status IN ('open', 'drafting', 'active', 'closed')),
		created_by INT NOT NULL REFERENCES users(user_id),
		created_at TIMESTAMPTZ DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS draft_picks (
		pick_id UUID PRIMARY KEY,
		league_id CHAR(8) NOT NULL REFERENCES leagues(league_id),
		user_id INT NOT NULL REFERENCES users(user_id),
		symbol VARCHAR(12) NOT NULL,
		entry_price NUMERIC NOT NULL CHECK (entry_price > 0),
		quantity INT NOT NULL DEFAULT 1 CHECK (quantity >= 1),
		round INT NOT NULL CHECK (round >= 1),
		pick_number INT NOT NULL CHECK (pick_number >= 1),
		created_at TIMESTAMPTZ DEFAULT now(),
		UNIQUE (league_id, pick_number),
		UNIQUE (league_id, symbol)
	);`,
	`CREATE TABLE IF NOT EXISTS trades (
		trade_id UUID PRIMARY KEY,
		league_id CHAR(8) NOT NULL REFERENCES leagues(league_id),
		user_id INT NOT NULL REFERENCES users(user_id),
		symbol VARCHAR(12) NOT NULL,
		action VARCHAR(4) NOT NULL CHECK (action IN ('buy', 'sell')),
		quantity INT NOT NULL CHECK (quantity > 0),
		price NUMERIC NOT NULL CHECK (price > 0),
		total_value NUMERIC NOT NULL,
		created_at TIMESTAMPTZ DEFAULT now()
	);`,
	`CREATE TABLE IF NOT EXISTS purse (
		user_id INT NOT NULL REFERENCES users(user_id),
		league_id CHAR(8) NOT NULL REFERENCES leagues(league_id),
		balance NUMERIC NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, league_id)
	);`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id SERIAL PRIMARY KEY,
		user_id INT NOT NULL REFERENCES users(user_id),
		league_id CHAR(8) NOT NULL,
		kind VARCHAR(16) NOT NULL,
		description TEXT NOT NULL,
		status VARCHAR(8) NOT NULL DEFAULT 'unseen',
		created_at TIMESTAMPTZ DEFAULT now()
	);`,
}

// Setup opens the database and ensures the schema exists.
func Setup(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, err
		}
	}

	return db, nil
}
