package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS bills (
    id TEXT PRIMARY KEY,
    creator_token TEXT NOT NULL UNIQUE,
    share_token TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL,
    image_url TEXT NOT NULL DEFAULT '',
    subtotal REAL,
    tax REAL,
    tip REAL,
    venmo_handle TEXT,
    zelle_handle TEXT,
    cashapp_handle TEXT,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bill_items (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    name TEXT NOT NULL,
    price REAL NOT NULL,
    FOREIGN KEY (bill_id) REFERENCES bills(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS participants (
    id TEXT PRIMARY KEY,
    bill_id TEXT NOT NULL,
    participant_token TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    is_creator INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (bill_id) REFERENCES bills(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS item_claims (
    id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    participant_id TEXT NOT NULL,
    UNIQUE (item_id, participant_id),
    FOREIGN KEY (item_id) REFERENCES bill_items(id) ON DELETE CASCADE,
    FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_bill_items_bill_id ON bill_items(bill_id);
CREATE INDEX IF NOT EXISTS idx_participants_bill_id ON participants(bill_id);
CREATE INDEX IF NOT EXISTS idx_participants_token ON participants(bill_id, participant_token);
CREATE INDEX IF NOT EXISTS idx_item_claims_item_id ON item_claims(item_id);
CREATE INDEX IF NOT EXISTS idx_item_claims_participant_id ON item_claims(participant_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
