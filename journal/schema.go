package journal

const Schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	kind TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL,
	allowed INTEGER NOT NULL,
	code TEXT NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_symbol ON decisions(symbol);
CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(time);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	equity REAL NOT NULL,
	day_pl REAL NOT NULL,
	drawdown REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
