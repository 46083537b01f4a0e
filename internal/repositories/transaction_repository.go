package repositories

import (
	"database/sql"
	"strings"
	"time"

	"storeroom_backend/internal/models"
)

// TransactionRepository defines the interface for ledger audit records.
// Transactions are append-only: there is no update or delete method, and none
// should ever be added. Rows only disappear when their container is deleted.
type TransactionRepository interface {
	CreateTransaction(executor SQLExecutor, transaction *models.Transaction) (int64, error)
	GetTransactions(containerID *string) ([]models.Transaction, error)
	SumQuantityChanges(containerID string) (float64, error)
}

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) CreateTransaction(executor SQLExecutor, transaction *models.Transaction) (int64, error) {
	query := `INSERT INTO transactions (container_id, user_id, transaction_type, quantity_change, timestamp)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, timestamp`
	if transaction.Timestamp.IsZero() {
		transaction.Timestamp = time.Now()
	}

	var userID sql.NullInt64
	if transaction.UserID != nil {
		userID = sql.NullInt64{Int64: *transaction.UserID, Valid: true}
	}

	err := executor.QueryRow(query,
		transaction.ContainerID, userID, transaction.TransactionType,
		transaction.QuantityChange, transaction.Timestamp,
	).Scan(&transaction.ID, &transaction.Timestamp)
	if err != nil {
		return 0, translateError(err, "creating transaction")
	}
	return transaction.ID, nil
}

func (r *transactionRepository) GetTransactions(containerID *string) ([]models.Transaction, error) {
	transactions := []models.Transaction{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT t.id, t.container_id, c.name, t.user_id, u.username,
	       t.transaction_type, t.quantity_change, t.timestamp
	  FROM transactions t
	  JOIN containers c ON t.container_id = c.id
	  LEFT JOIN users u ON t.user_id = u.id`)

	var args []interface{}
	if containerID != nil {
		queryBuilder.WriteString(" WHERE t.container_id = $1")
		args = append(args, *containerID)
	}
	queryBuilder.WriteString(" ORDER BY t.timestamp DESC, t.id DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, translateError(err, "getting transactions")
	}
	defer rows.Close()

	for rows.Next() {
		var transaction models.Transaction
		var userID sql.NullInt64
		var username sql.NullString

		if err := rows.Scan(
			&transaction.ID, &transaction.ContainerID, &transaction.ContainerName,
			&userID, &username, &transaction.TransactionType,
			&transaction.QuantityChange, &transaction.Timestamp,
		); err != nil {
			return nil, translateError(err, "scanning transaction")
		}
		if userID.Valid {
			transaction.UserID = &userID.Int64
		}
		if username.Valid {
			name := username.String
			transaction.Username = &name
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterating transactions")
	}
	return transactions, nil
}

// SumQuantityChanges folds the audit log for one container. The result must
// always equal the container's current_quantity projection.
func (r *transactionRepository) SumQuantityChanges(containerID string) (float64, error) {
	var sum float64
	err := r.db.QueryRow(
		"SELECT COALESCE(SUM(quantity_change), 0) FROM transactions WHERE container_id = $1",
		containerID,
	).Scan(&sum)
	if err != nil {
		return 0, translateError(err, "summing transaction quantity changes")
	}
	return sum, nil
}
