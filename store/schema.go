package store

const schema = `
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    owner TEXT NOT NULL,
    visibility TEXT NOT NULL DEFAULT 'private',

    -- document.Bundle JSON
    bundle TEXT NOT NULL,
    thumbnail BLOB,

    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner, updated_at DESC);
`
