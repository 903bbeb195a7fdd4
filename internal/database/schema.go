package database

// schema is the DDL applied once on startup. Timestamps are stored as
// local-time TEXT (SQLite idiom). Money columns are REAL holding whole
// currency units.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    user_id              INTEGER PRIMARY KEY AUTOINCREMENT,
    full_name            TEXT    NOT NULL,
    email                TEXT    NOT NULL UNIQUE,
    phone                TEXT,
    address              TEXT,
    avatar_url           TEXT,
    password_hash        TEXT    NOT NULL,
    is_active            INTEGER NOT NULL DEFAULT 1,
    force_password_reset INTEGER NOT NULL DEFAULT 0,
    created_at           TEXT    NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS roles (
    role_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name    TEXT    NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS user_roles (
    user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    role_id INTEGER NOT NULL REFERENCES roles(role_id) ON DELETE CASCADE,
    PRIMARY KEY (user_id, role_id)
);

CREATE TABLE IF NOT EXISTS categories (
    category_id INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT    NOT NULL,
    description TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
    product_id   INTEGER PRIMARY KEY AUTOINCREMENT,
    category_id  INTEGER NOT NULL REFERENCES categories(category_id),
    name         TEXT    NOT NULL,
    description  TEXT    NOT NULL DEFAULT '',
    price        REAL    NOT NULL,
    -- Never negative: decrements are guarded with "AND stock_qty >= ?",
    -- the CHECK is a backstop.
    stock_qty    INTEGER NOT NULL DEFAULT 0 CHECK (stock_qty >= 0),
    is_available INTEGER NOT NULL DEFAULT 1,
    image_url    TEXT,
    topic_tag    TEXT
);

CREATE TABLE IF NOT EXISTS combos (
    combo_id    INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT    NOT NULL,
    description TEXT    NOT NULL DEFAULT '',
    price       REAL    NOT NULL,
    image_url   TEXT,
    is_active   INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS combo_items (
    combo_id   INTEGER NOT NULL REFERENCES combos(combo_id) ON DELETE CASCADE,
    product_id INTEGER NOT NULL REFERENCES products(product_id),
    quantity   INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (combo_id, product_id)
);

CREATE TABLE IF NOT EXISTS promo_codes (
    code        TEXT    PRIMARY KEY,      -- stored uppercased
    type        TEXT    NOT NULL,         -- 'percentage' | 'fixed'
    value       REAL    NOT NULL,
    usage_limit INTEGER,                  -- NULL = unlimited
    used_count  INTEGER NOT NULL DEFAULT 0,
    expires_at  TEXT    NOT NULL,
    is_active   INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS orders (
    order_id        INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id         INTEGER NOT NULL REFERENCES users(user_id),
    order_code      TEXT    NOT NULL,
    status          TEXT    NOT NULL,
    sub_total       REAL    NOT NULL,
    discount_total  REAL    NOT NULL,
    delivery_fee    REAL    NOT NULL,
    grand_total     REAL    NOT NULL,
    payment_status  TEXT    NOT NULL,
    payment_method  TEXT    NOT NULL,
    promo_code      TEXT,
    note            TEXT,
    -- UNIQUE carries the retry-dedup guarantee together with the
    -- check-then-insert done inside the placement transaction.
    idempotency_key TEXT    UNIQUE,
    created_at      TEXT    NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS order_items (
    order_item_id         INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id              INTEGER NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
    product_id            INTEGER NOT NULL,
    product_name_snapshot TEXT    NOT NULL,
    unit_price_snapshot   REAL    NOT NULL,
    quantity              INTEGER NOT NULL,
    line_total            REAL    NOT NULL
);

CREATE TABLE IF NOT EXISTS order_status_history (
    history_id         INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id           INTEGER NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
    from_status        TEXT    NOT NULL,
    to_status          TEXT    NOT NULL,
    changed_by_user_id INTEGER,
    changed_at         TEXT    NOT NULL DEFAULT (datetime('now','localtime')),
    note               TEXT
);

CREATE TABLE IF NOT EXISTS payments (
    payment_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id        INTEGER NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
    provider        TEXT    NOT NULL,
    amount          REAL    NOT NULL,
    status          TEXT    NOT NULL,
    transaction_ref TEXT    NOT NULL,
    paid_at         TEXT    NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS audit_log (
    audit_log_id    INTEGER PRIMARY KEY AUTOINCREMENT,
    actor_user_id   INTEGER NOT NULL,
    action          TEXT    NOT NULL,
    entity_name     TEXT    NOT NULL,
    entity_id       INTEGER NOT NULL,
    old_values_json TEXT    NOT NULL DEFAULT '',
    new_values_json TEXT    NOT NULL DEFAULT '',
    ip_address      TEXT    NOT NULL DEFAULT '',
    created_at      TEXT    NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE INDEX IF NOT EXISTS idx_orders_user      ON orders(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_orders_status    ON orders(status);
CREATE INDEX IF NOT EXISTS idx_history_order    ON order_status_history(order_id, changed_at);
CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_log(created_at);

INSERT OR IGNORE INTO roles (name) VALUES ('Admin'), ('Customer');
`
