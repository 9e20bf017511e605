package mysql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/bucket-filter/domain"
	repo "github.com/Guyuepp/bucket-filter/internal/repository/mysql"
	"github.com/Guyuepp/bucket-filter/internal/signature"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

var items = domain.NewBucket("items")

func TestListBuckets(t *testing.T) {
	gdb, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"table_name"}).AddRow("items").AddRow("orders")
	mock.ExpectQuery("SELECT .*table_name.* FROM .*information_schema.*tables.* WHERE table_schema = \\? AND table_name <> \\?").
		WithArgs("shop", "bucket_signature").
		WillReturnRows(rows)

	names, err := repo.NewBucketRepository(gdb, "shop").ListBuckets(context.TODO())
	require.NoError(t, err)
	assert.Equal(t, []string{"items", "orders"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBuckets_InvalidConn(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT").WillReturnError(mysqlDriver.ErrInvalidConn)

	_, err := repo.NewBucketRepository(gdb, "shop").ListBuckets(context.TODO())
	assert.ErrorIs(t, err, domain.ErrUnableToConnect)
}

func TestListBuckets_AccessDenied(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT").WillReturnError(&mysqlDriver.MySQLError{Number: 1045, Message: "access denied"})

	_, err := repo.NewBucketRepository(gdb, "shop").ListBuckets(context.TODO())
	assert.ErrorIs(t, err, domain.ErrUnableToConnect)
}

func TestAddBuckets(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `items`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `orders`").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.NewBucketRepository(gdb, "shop").AddBuckets(context.TODO(), "items", "orders")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddBuckets_InvalidConn(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectExec("CREATE TABLE").WillReturnError(mysqlDriver.ErrInvalidConn)

	err := repo.NewBucketRepository(gdb, "shop").AddBuckets(context.TODO(), "items")
	assert.ErrorIs(t, err, domain.ErrUnableToConnect)
}

func TestStoreItem(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO `items` \\(`item_key`,`item_value`\\) VALUES \\(\\?,\\?\\)").
		WithArgs("X", "v").
		WillReturnResult(sqlmock.NewResult(42, 1))

	it := &domain.Item{Key: "X", Value: "v"}
	require.NoError(t, repo.NewItemRepository(gdb).Store(context.TODO(), items, it))
	assert.Equal(t, int64(42), it.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchKeys(t *testing.T) {
	gdb, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"item_key"}).AddRow("X").AddRow("Y")
	mock.ExpectQuery("SELECT DISTINCT `item_key` FROM `items` ORDER BY item_key").WillReturnRows(rows)

	keys, err := repo.NewItemRepository(gdb).FetchKeys(context.TODO(), items)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchByKey(t *testing.T) {
	gdb, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"id", "item_key", "item_value"}).
		AddRow(1, "X", "first").
		AddRow(7, "X", "second")
	mock.ExpectQuery("SELECT \\* FROM `items` WHERE item_key = \\? ORDER BY id").
		WithArgs("X").
		WillReturnRows(rows)

	res, err := repo.NewItemRepository(gdb).FetchByKey(context.TODO(), items, domain.KeyFilter{Key: "X"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Item{
		{ID: 1, Key: "X", Value: "first"},
		{ID: 7, Key: "X", Value: "second"},
	}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchByKey_Unexpected(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT").WillReturnError(&mysqlDriver.MySQLError{Number: 1146, Message: "table doesn't exist"})

	_, err := repo.NewItemRepository(gdb).FetchByKey(context.TODO(), items, domain.KeyFilter{Key: "X"})
	assert.ErrorIs(t, err, domain.ErrUnexpected)
}

func TestFetchSubBuckets(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "item_value"}).AddRow(0x42, "a").AddRow(0x43, "b")
		mock.ExpectQuery("SELECT id, item_value FROM `items` ORDER BY id").WillReturnRows(rows)

		res, err := repo.NewItemRepository(gdb).FetchSubBuckets(context.TODO(), items, nil)
		require.NoError(t, err)
		assert.Equal(t, []domain.SubBucket{{ID: 0x42, Data: []byte("a")}, {ID: 0x43, Data: []byte("b")}}, res)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pushed down", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "item_value"}).AddRow(0x43, "b")
		mock.ExpectQuery("SELECT id, item_value FROM `items` WHERE id BETWEEN \\? AND \\? ORDER BY id").
			WithArgs(int64(0x43), int64(0x45)).
			WillReturnRows(rows)

		res, err := repo.NewItemRepository(gdb).FetchSubBuckets(context.TODO(), items, &domain.RangeFilter{Lo: 0x43, Hi: 0x45})
		require.NoError(t, err)
		assert.Len(t, res, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTableStats(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT table_rows AS table_rows FROM .*information_schema.*tables.*").
		WithArgs("shop", "items").
		WillReturnRows(sqlmock.NewRows([]string{"table_rows"}).AddRow(500))
	mock.ExpectQuery("SELECT COALESCE\\(MIN\\(id\\), 0\\) AS min_id, COALESCE\\(MAX\\(id\\), 0\\) AS max_id FROM `items`").
		WillReturnRows(sqlmock.NewRows([]string{"min_id", "max_id"}).AddRow(1, 640))

	st, err := repo.NewStatsRepository(gdb, "shop").TableStats(context.TODO(), items)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStats{Rows: 500, MinID: 1, MaxID: 640}, st)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableStats_NotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectQuery("SELECT table_rows").
		WillReturnRows(sqlmock.NewRows([]string{"table_rows"}))

	_, err := repo.NewStatsRepository(gdb, "shop").TableStats(context.TODO(), items)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSignatures(t *testing.T) {
	now := time.Now()
	gdb, mock := newMockDB(t)
	x := signature.FromWords(0b0011)
	y := signature.FromWords(0b0100)
	xb, _ := x.MarshalBinary()
	yb, _ := y.MarshalBinary()
	rows := sqlmock.NewRows([]string{"scope", "bucket", "signature", "updated_at"}).
		AddRow("items", "a", xb, now).
		AddRow("items", "b", yb, now)
	mock.ExpectQuery("SELECT \\* FROM `bucket_signature` WHERE scope = \\? ORDER BY bucket").
		WithArgs("items").
		WillReturnRows(rows)

	pairs, err := repo.NewSignatureRepository(gdb).ListSignatures(context.TODO(), items)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "a", pairs[0].Bucket.String())
	assert.True(t, x.Equal(pairs[0].Signature))
	assert.True(t, y.Equal(pairs[1].Signature))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSignatures_BadEncoding(t *testing.T) {
	now := time.Now()
	gdb, mock := newMockDB(t)
	rows := sqlmock.NewRows([]string{"scope", "bucket", "signature", "updated_at"}).
		AddRow("items", "a", []byte{1, 2, 3}, now)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	_, err := repo.NewSignatureRepository(gdb).ListSignatures(context.TODO(), items)
	assert.ErrorIs(t, err, domain.ErrUnexpected)
}

func TestPutSignature(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO `bucket_signature` .* ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.NewSignatureRepository(gdb).PutSignature(context.TODO(), items, domain.NewBucket("a"), signature.FromWords(1))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeSignature(t *testing.T) {
	now := time.Now()
	gdb, mock := newMockDB(t)
	stored, _ := signature.FromWords(0b0001).MarshalBinary()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `bucket_signature` WHERE scope = \\? AND bucket = \\? FOR UPDATE").
		WithArgs("items", "a").
		WillReturnRows(sqlmock.NewRows([]string{"scope", "bucket", "signature", "updated_at"}).
			AddRow("items", "a", stored, now))
	mock.ExpectExec("INSERT INTO `bucket_signature`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.NewSignatureRepository(gdb).MergeSignature(context.TODO(), items, domain.NewBucket("a"), signature.FromWords(0b0100))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMergeSignature_Rollback(t *testing.T) {
	gdb, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := repo.NewSignatureRepository(gdb).MergeSignature(context.TODO(), items, domain.NewBucket("a"), signature.FromWords(1))
	assert.ErrorIs(t, err, domain.ErrUnexpected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
