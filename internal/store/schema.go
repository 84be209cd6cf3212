package store

// Timestamps are stored as Unix microseconds so both dialects share one
// encoding.

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  last_login_at INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS study_sessions (
  id TEXT PRIMARY KEY,
  sequence INTEGER NOT NULL,
  user_id TEXT NOT NULL,
  completed_at INTEGER NOT NULL,
  score INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  accuracy REAL NOT NULL,
  time_spent REAL NOT NULL,
  categories TEXT NOT NULL,
  weak_areas TEXT NOT NULL DEFAULT '',
  strong_areas TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS study_sessions_user_idx ON study_sessions (user_id, completed_at);

CREATE TABLE IF NOT EXISTS kv_entries (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS llm_requests (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sequence INTEGER NOT NULL,
  created_at INTEGER NOT NULL,
  provider TEXT NOT NULL,
  model TEXT NOT NULL,
  purpose TEXT NOT NULL,
  input_tokens INTEGER NOT NULL,
  output_tokens INTEGER NOT NULL,
  latency_ms INTEGER NOT NULL,
  success INTEGER NOT NULL,
  error_message TEXT NOT NULL DEFAULT ''
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  last_login_at BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS study_sessions (
  id TEXT PRIMARY KEY,
  sequence BIGINT NOT NULL,
  user_id TEXT NOT NULL,
  completed_at BIGINT NOT NULL,
  score INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  accuracy DOUBLE PRECISION NOT NULL,
  time_spent DOUBLE PRECISION NOT NULL,
  categories TEXT NOT NULL,
  weak_areas TEXT NOT NULL DEFAULT '',
  strong_areas TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS study_sessions_user_idx ON study_sessions (user_id, completed_at);

CREATE TABLE IF NOT EXISTS kv_entries (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS llm_requests (
  id BIGSERIAL PRIMARY KEY,
  sequence BIGINT NOT NULL,
  created_at BIGINT NOT NULL,
  provider TEXT NOT NULL,
  model TEXT NOT NULL,
  purpose TEXT NOT NULL,
  input_tokens INTEGER NOT NULL,
  output_tokens INTEGER NOT NULL,
  latency_ms BIGINT NOT NULL,
  success BOOLEAN NOT NULL,
  error_message TEXT NOT NULL DEFAULT ''
);
`
