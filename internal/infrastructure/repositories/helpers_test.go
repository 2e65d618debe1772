package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createPaymentMethodTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE fiat_payment_methods (
		idx INTEGER PRIMARY KEY AUTOINCREMENT,
		display_name TEXT NOT NULL,
		oracle_addr TEXT NOT NULL,
		new_maker_job_id TEXT NOT NULL,
		buy_crypto_order_job_id TEXT NOT NULL,
		buy_crypto_order_payed_job_id TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createMakerTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE makers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		maker_addr TEXT NOT NULL,
		fiat_payment_method_idx INTEGER NOT NULL,
		crypto TEXT NOT NULL,
		fiat TEXT NOT NULL,
		payment_destination TEXT NOT NULL,
		api_creds_hash TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT 0,
		activated_at DATETIME,
		created_at DATETIME
	);`)
}

func createOrderTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE buy_orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		taker TEXT NOT NULL,
		maker_id INTEGER NOT NULL,
		crypto TEXT NOT NULL,
		fiat TEXT NOT NULL,
		amount TEXT NOT NULL,
		fiat_payment_method_idx INTEGER NOT NULL,
		status TEXT NOT NULL,
		oracle_confirmed_at DATETIME,
		settled_at DATETIME,
		cancelled_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createOracleRequestTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE oracle_requests (
		request_id TEXT PRIMARY KEY,
		oracle_addr TEXT NOT NULL,
		job_id TEXT NOT NULL,
		callback_selector TEXT NOT NULL,
		subject_type TEXT NOT NULL,
		subject_id INTEGER NOT NULL,
		fee_amount TEXT NOT NULL,
		payload TEXT,
		expired BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME
	);`)
}
