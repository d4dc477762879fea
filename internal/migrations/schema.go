package migrations

// CurrentVersion is the PRAGMA user_version written after a successful run.
const CurrentVersion = 3

// Base tables as they were first shipped. Columns added later are applied
// by the column steps in migrations.go.
const createBaseTables = `
CREATE TABLE IF NOT EXISTS wallet_blob (
    chunk_index INTEGER PRIMARY KEY,
    text        TEXT
);

CREATE TABLE IF NOT EXISTS preferences (
    id                    INTEGER PRIMARY KEY,
    currency              TEXT,
    notifications_enabled BOOLEAN,
    scan_coinbase         BOOLEAN,
    limit_data            BOOLEAN,
    theme                 TEXT,
    auth_confirmation     BOOLEAN,
    language              TEXT
);
`

const createJournalTables = `
CREATE TABLE IF NOT EXISTS payees (
    nickname   TEXT,
    address    TEXT,
    payment_id TEXT
);

CREATE TABLE IF NOT EXISTS messages (
    conversation TEXT,
    type         TEXT,
    body         TEXT,
    timestamp    TEXT,
    read         BOOLEAN DEFAULT 1,
    UNIQUE (timestamp)
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation, timestamp);

CREATE TABLE IF NOT EXISTS board_messages (
    address   TEXT,
    body      TEXT,
    signature TEXT,
    board     TEXT,
    timestamp TEXT,
    nickname  TEXT,
    reply     TEXT,
    hash      TEXT UNIQUE,
    sent      BOOLEAN,
    read      BOOLEAN DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_board_messages_board ON board_messages(board, timestamp);

CREATE TABLE IF NOT EXISTS transaction_details (
    hash       TEXT,
    memo       TEXT,
    address    TEXT,
    payee_name TEXT
);
`

// seedRows inserts the singleton rows unless they already exist.
const seedBlobSlot = `INSERT OR IGNORE INTO wallet_blob (chunk_index, text) VALUES (0, '')`

const seedPreferences = `
INSERT OR IGNORE INTO preferences (
    id, currency, notifications_enabled, scan_coinbase, limit_data,
    theme, auth_confirmation, auto_optimize, auth_method, node
) VALUES (0, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
