package store

// Source tables reference their parents by id only. No foreign key
// constraints and no cascades: deleting a submission leaves its medias,
// albums and images in place, and the rollup refresh simply stops seeing
// them. The three rollup tables are derived caches, cleared and rebuilt
// wholesale on every refresh.
const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id            TEXT PRIMARY KEY,
    title         TEXT NOT NULL DEFAULT '',
    author        TEXT NOT NULL DEFAULT '',
    subreddit     TEXT NOT NULL DEFAULT '',
    permalink     TEXT NOT NULL UNIQUE,
    created_utc   INTEGER NOT NULL DEFAULT 0,
    selftext_html TEXT,
    comments      INTEGER NOT NULL DEFAULT 0,
    gilded        INTEGER NOT NULL DEFAULT 0,
    downs         INTEGER NOT NULL DEFAULT 0,
    ups           INTEGER NOT NULL DEFAULT 0,
    score         INTEGER NOT NULL DEFAULT 0,
    search_query  TEXT NOT NULL DEFAULT '',
    date_created  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_submissions_subreddit ON submissions(subreddit);
CREATE INDEX IF NOT EXISTS idx_submissions_query ON submissions(search_query);
CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_utc);

CREATE TABLE IF NOT EXISTS medias (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    submission_id TEXT NOT NULL,
    url           TEXT NOT NULL,
    is_direct     BOOLEAN NOT NULL DEFAULT 0,
    txt           TEXT,
    UNIQUE(submission_id, url)
);

CREATE INDEX IF NOT EXISTS idx_medias_submission ON medias(submission_id);

CREATE TABLE IF NOT EXISTS albums (
    id           TEXT PRIMARY KEY,
    media_id     INTEGER NOT NULL,
    title        TEXT,
    description  TEXT,
    uploaded_utc INTEGER NOT NULL DEFAULT 0,
    url          TEXT NOT NULL DEFAULT '',
    views        INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_albums_media ON albums(media_id);

CREATE TABLE IF NOT EXISTS images (
    id           TEXT PRIMARY KEY,
    media_id     INTEGER NOT NULL,
    album_id     TEXT,
    title        TEXT,
    description  TEXT,
    uploaded_utc INTEGER,
    mimetype     TEXT,
    url          TEXT NOT NULL DEFAULT '',
    views        INTEGER,
    img          BLOB
);

CREATE INDEX IF NOT EXISTS idx_images_media ON images(media_id);
CREATE INDEX IF NOT EXISTS idx_images_album ON images(album_id);

CREATE TABLE IF NOT EXISTS album_posts (
    media_id INTEGER PRIMARY KEY,
    post     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS media_rollups (
    media_id       INTEGER PRIMARY KEY,
    submission_id  TEXT NOT NULL,
    album_uploaded INTEGER,
    album_views    INTEGER,
    n_images       INTEGER,
    has_album      BOOLEAN,
    image_views    INTEGER,
    first_uploaded INTEGER,
    last_uploaded  INTEGER,
    post           TEXT
);

CREATE INDEX IF NOT EXISTS idx_media_rollups_submission ON media_rollups(submission_id);

CREATE TABLE IF NOT EXISTS submission_rollups (
    submission_id        TEXT PRIMARY KEY,
    title                TEXT NOT NULL DEFAULT '',
    author               TEXT NOT NULL DEFAULT '',
    created_utc          INTEGER NOT NULL DEFAULT 0,
    selftext_html        TEXT,
    comments             INTEGER NOT NULL DEFAULT 0,
    gilded               INTEGER NOT NULL DEFAULT 0,
    downs                INTEGER NOT NULL DEFAULT 0,
    ups                  INTEGER NOT NULL DEFAULT 0,
    n_albums             INTEGER,
    first_album_uploaded INTEGER,
    last_album_uploaded  INTEGER,
    total_album_views    INTEGER,
    total_images         INTEGER,
    first_image_uploaded INTEGER,
    last_image_uploaded  INTEGER,
    posts                TEXT
);

CREATE INDEX IF NOT EXISTS idx_submission_rollups_author ON submission_rollups(author);
CREATE INDEX IF NOT EXISTS idx_submission_rollups_created ON submission_rollups(created_utc);
`
