package store

// Schema is applied on every Open; every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS instruments (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL DEFAULT '',
	exchange TEXT NOT NULL DEFAULT '',
	tick_size REAL NOT NULL DEFAULT 0,
	tick_value REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS strategies (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tags (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	date DATE NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	market TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS trades (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	instrument_id TEXT NOT NULL REFERENCES instruments(id),
	strategy_id TEXT NOT NULL REFERENCES strategies(id),
	quantity INTEGER NOT NULL,
	direction TEXT NOT NULL CHECK (direction IN ('LONG', 'SHORT')),
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_time DATETIME NOT NULL,
	fees_commissions REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_exit_time ON trades(exit_time);
CREATE INDEX IF NOT EXISTS idx_trades_session ON trades(session_id);

CREATE TABLE IF NOT EXISTS trade_tags (
	trade_id TEXT NOT NULL REFERENCES trades(id),
	tag_id TEXT NOT NULL REFERENCES tags(id),
	PRIMARY KEY (trade_id, tag_id)
);

CREATE TABLE IF NOT EXISTS session_tags (
	session_id TEXT NOT NULL REFERENCES sessions(id),
	tag_id TEXT NOT NULL REFERENCES tags(id),
	PRIMARY KEY (session_id, tag_id)
);

CREATE TABLE IF NOT EXISTS vendors (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS evaluation_programs (
	id TEXT PRIMARY KEY,
	firm TEXT NOT NULL,
	model TEXT NOT NULL,
	rules TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	UNIQUE (firm, model)
);

CREATE TABLE IF NOT EXISTS evaluations (
	id TEXT PRIMARY KEY,
	program_id TEXT NOT NULL REFERENCES evaluation_programs(id),
	purchase_date DATE NOT NULL,
	status TEXT NOT NULL CHECK (status IN ('bought', 'active', 'passed', 'failed', 'expired')),
	attempts_count INTEGER NOT NULL DEFAULT 0,
	resets_count INTEGER NOT NULL DEFAULT 0,
	cost_total REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS funded_accounts (
	id TEXT PRIMARY KEY,
	firm TEXT NOT NULL,
	start_date DATE NOT NULL,
	status TEXT NOT NULL CHECK (status IN ('active', 'closed')),
	account_size REAL NOT NULL,
	current_drawdown_buffer REAL NOT NULL DEFAULT 0,
	evaluation_id TEXT REFERENCES evaluations(id)
);

CREATE TABLE IF NOT EXISTS expenses (
	id TEXT PRIMARY KEY,
	date DATE NOT NULL,
	vendor_id TEXT NOT NULL REFERENCES vendors(id),
	category TEXT NOT NULL DEFAULT '',
	amount REAL NOT NULL,
	currency TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	evaluation_id TEXT REFERENCES evaluations(id),
	account_id TEXT REFERENCES funded_accounts(id)
);

CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date);

CREATE TABLE IF NOT EXISTS payouts (
	id TEXT PRIMARY KEY,
	date DATE NOT NULL,
	firm TEXT NOT NULL,
	account_id TEXT NOT NULL REFERENCES funded_accounts(id),
	amount_gross REAL NOT NULL,
	fees_withheld REAL NOT NULL,
	amount_net REAL NOT NULL
);
`
