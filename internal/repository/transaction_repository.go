package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sales-dashboard/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrDuplicateID is returned when an insert hits an id that is already stored.
var ErrDuplicateID = errors.New("transaction id already exists")

const uniqueViolation = "23505"

var transactionColumns = []string{
	"id", "title", "description", "price", "category", "image", "sold", "date_of_sale", "month",
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// ExistingIDs returns the subset of ids already present in the store.
func (r *TransactionRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	existing := make(map[int64]struct{})
	if len(ids) == 0 {
		return existing, nil
	}

	sql, args, err := existingIDsQuery(ids).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = struct{}{}
	}
	return existing, rows.Err()
}

// CreateBatch writes all transactions with a single COPY, so the batch size
// is not bounded by the bind parameter limit. A conflicting id fails the
// whole batch with ErrDuplicateID.
func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"transactions"}, transactionColumns, copyRows(transactions))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateID, pgErr.Detail)
		}
		return err
	}

	r.logger.Debug("Transactions copied", zap.Int64("rows", n))
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Transaction, error) {
	sql, args, err := listQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.Title, &tx.Description, &tx.Price, &tx.Category, &tx.Image, &tx.Sold, &tx.DateOfSale, &tx.Month,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}
	return transactions, rows.Err()
}

// Count returns the number of transactions whose title matches search.
func (r *TransactionRepository) Count(ctx context.Context, search string) (int64, error) {
	sql, args, err := countQuery(search).ToSql()
	if err != nil {
		return 0, err
	}

	var n int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&n)
	return n, err
}

// SumPrice totals price over every transaction of the month, sold or not.
func (r *TransactionRepository) SumPrice(ctx context.Context, month string) (float64, error) {
	sql, args, err := psql.Select("COALESCE(SUM(price), 0)").
		From("transactions").
		Where(squirrel.Eq{"month": month}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total float64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&total)
	return total, err
}

func (r *TransactionRepository) CountBySold(ctx context.Context, month string, sold bool) (int64, error) {
	sql, args, err := psql.Select("COUNT(*)").
		From("transactions").
		Where(squirrel.Eq{"month": month, "sold": sold}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var n int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&n)
	return n, err
}

// PriceRangeCounts counts sold transactions of the month per price bucket.
// Buckets without sales are absent from the result.
func (r *TransactionRepository) PriceRangeCounts(ctx context.Context, month string) (map[string]int64, error) {
	sql, args, err := priceRangeQuery(month).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var label string
		var n int64
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

// CategoryCounts counts sold transactions of the month per category, largest
// first. Ties are ordered by category name.
func (r *TransactionRepository) CategoryCounts(ctx context.Context, month string) ([]models.CategoryCount, error) {
	sql, args, err := psql.Select("category", "COUNT(*) AS count").
		From("transactions").
		Where(squirrel.Eq{"month": month, "sold": true}).
		GroupBy("category").
		OrderBy("count DESC", "category ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.CategoryCount, 0)
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// existingIDsQuery binds ids as one array parameter.
func existingIDsQuery(ids []int64) squirrel.SelectBuilder {
	return psql.Select("id").
		From("transactions").
		Where(squirrel.Expr("id = ANY(?)", ids))
}

// copyRows yields rows in transactionColumns order.
func copyRows(transactions []*models.Transaction) pgx.CopyFromSource {
	return pgx.CopyFromSlice(len(transactions), func(i int) ([]any, error) {
		tx := transactions[i]
		return []any{tx.ID, tx.Title, tx.Description, tx.Price, tx.Category, tx.Image, tx.Sold, tx.DateOfSale, tx.Month}, nil
	})
}

func listQuery(filter models.ListFilter) squirrel.SelectBuilder {
	query := psql.Select(transactionColumns...).
		From("transactions").
		OrderBy("id ASC")
	if filter.Search != "" {
		query = query.Where(titleContains(filter.Search))
	}
	if filter.Paginate {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	return query
}

func countQuery(search string) squirrel.SelectBuilder {
	query := psql.Select("COUNT(*)").From("transactions")
	if search != "" {
		query = query.Where(titleContains(search))
	}
	return query
}

func priceRangeQuery(month string) squirrel.SelectBuilder {
	last := models.PriceRanges[len(models.PriceRanges)-1]
	bucket := squirrel.Case()
	for _, pr := range models.PriceRanges[:len(models.PriceRanges)-1] {
		bucket = bucket.When(squirrel.Expr("price <= ?", pr.Upper), squirrel.Expr("?::text", pr.Label))
	}
	bucket = bucket.Else(squirrel.Expr("?::text", last.Label))

	return psql.Select().
		Column(squirrel.Alias(bucket, "price_range")).
		Column("COUNT(*)").
		From("transactions").
		Where(squirrel.Eq{"month": month, "sold": true}).
		GroupBy("price_range")
}

// titleContains matches search as a literal, case-insensitive substring.
func titleContains(search string) squirrel.Sqlizer {
	return squirrel.ILike{"title": "%" + escapeLike(search) + "%"}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
