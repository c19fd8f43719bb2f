package store

const schema = `
CREATE TABLE IF NOT EXISTS vendors (
	id                    BIGSERIAL PRIMARY KEY,
	name                  VARCHAR(100) NOT NULL,
	contact_details       TEXT NOT NULL,
	address               TEXT NOT NULL,
	vendor_code           VARCHAR(50) NOT NULL UNIQUE,
	on_time_delivery_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	quality_rating_avg    DOUBLE PRECISION NOT NULL DEFAULT 0,
	average_response_time DOUBLE PRECISION NOT NULL DEFAULT 0,
	fulfillment_rate      DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS purchase_orders (
	id             BIGSERIAL PRIMARY KEY,
	po_number      VARCHAR(100) NOT NULL UNIQUE,
	vendor_id      BIGINT NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
	order_date     TIMESTAMPTZ NOT NULL,
	delivery_date  TIMESTAMPTZ NOT NULL,
	items          JSONB NOT NULL,
	quantity       INTEGER NOT NULL,
	status         VARCHAR(20) NOT NULL DEFAULT 'pending'
	               CHECK (status IN ('pending', 'completed', 'canceled')),
	quality_rating DOUBLE PRECISION,
	issue_date     TIMESTAMPTZ NOT NULL,
	acknowledgment TIMESTAMPTZ,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_purchase_orders_vendor_status ON purchase_orders (vendor_id, status);

CREATE TABLE IF NOT EXISTS historical_performances (
	id                    BIGSERIAL PRIMARY KEY,
	vendor_id             BIGINT NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
	date                  TIMESTAMPTZ NOT NULL,
	on_time_delivery_rate DOUBLE PRECISION NOT NULL,
	quality_rating_avg    DOUBLE PRECISION NOT NULL,
	average_response_time DOUBLE PRECISION NOT NULL,
	fulfillment_rate      DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_historical_performances_vendor ON historical_performances (vendor_id, date);

CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	username      VARCHAR(150) NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS processed_events (
	event_id     VARCHAR(64) PRIMARY KEY,
	event_type   VARCHAR(64) NOT NULL,
	processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
