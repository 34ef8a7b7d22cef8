package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordDecision(d DecisionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO decisions
		(id, time, kind, symbol, side, quantity, price, allowed, code, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Time, d.Kind, d.Symbol, d.Side, d.Quantity,
		d.Price, d.Allowed, d.Code, d.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, equity, day_pl, drawdown)
		VALUES (?, ?, ?, ?)`,
		e.Time, e.Equity, e.DayPL, e.Drawdown,
	)
	return err
}

// DecisionsBySymbol loads the journaled decisions for one symbol, newest
// first.
func (j *SQLiteJournal) DecisionsBySymbol(symbol string) ([]DecisionRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, time, kind, symbol, side, quantity, price, allowed, code, reason
		FROM decisions WHERE symbol = ? ORDER BY time DESC`, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var d DecisionRecord
		if err := rows.Scan(&d.ID, &d.Time, &d.Kind, &d.Symbol, &d.Side,
			&d.Quantity, &d.Price, &d.Allowed, &d.Code, &d.Reason); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
