package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osahq/conduct/internal/app/models"
	"github.com/osahq/conduct/internal/app/models/dto"
	"github.com/osahq/conduct/internal/pkg/apperrors"
	"github.com/osahq/conduct/internal/pkg/helpers"
	"github.com/osahq/conduct/internal/pkg/logger"
)

// ListMessagesParams holds parameters for filtering and pagination.
type ListMessagesParams struct {
	RecipientID int64
	Page        int
	Size        int
}

// MessageRepository handles in-app message database operations. It backs the
// notification store, so it satisfies notify.MessageWriter.
type MessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *MessageRepository) selectMessageQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"m.id", "m.sender_id", "m.recipient_id", "m.subject", "m.body",
		"m.created_at", "m.read_at",
		"u.email", "u.first_name", "u.last_name", "u.role",
	).
		From("messages m").
		Join("users u ON m.sender_id = u.id")
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var (
		message models.Message
		sender  models.User
	)

	err := row.Scan(
		&message.ID, &message.SenderID, &message.RecipientID, &message.Subject, &message.Body,
		&message.CreatedAt, &message.ReadAt,
		&sender.Email, &sender.FirstName, &sender.LastName, &sender.Role,
	)
	if err != nil {
		return nil, err
	}

	sender.ID = message.SenderID
	message.Sender = &sender

	return &message, nil
}

// CreateMessage stores a message for later reading by the recipient
func (r *MessageRepository) CreateMessage(ctx context.Context, message *models.Message) (int64, error) {
	sql, args, err := r.sb.Insert("messages").
		Columns("sender_id", "recipient_id", "subject", "body").
		Values(message.SenderID, message.RecipientID, message.Subject, message.Body).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create message SQL")
		return 0, fmt.Errorf("failed to build create message query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("recipientID", message.RecipientID).Msg("Error executing create message query")
		return 0, fmt.Errorf("error creating message: %w", err)
	}

	return message.ID, nil
}

// GetMessageByID retrieves a message with the sender relation
func (r *MessageRepository) GetMessageByID(ctx context.Context, id int64) (*models.Message, error) {
	sql, args, err := r.selectMessageQuery().
		Where(squirrel.Eq{"m.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get message SQL")
		return nil, fmt.Errorf("failed to build get message query: %w", err)
	}

	message, err := scanMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMessageNotFound
		}
		logger.Error().Err(err).Int64("messageID", id).Msg("Error scanning message row")
		return nil, fmt.Errorf("error getting message by ID: %w", err)
	}

	return message, nil
}

// ListMessagesByRecipient retrieves a user's inbox, newest first
func (r *MessageRepository) ListMessagesByRecipient(ctx context.Context, params ListMessagesParams) ([]*models.Message, dto.PaginationInfo, error) {
	countSQL, countArgs, err := r.sb.Select("count(*)").
		From("messages m").
		Where(squirrel.Eq{"m.recipient_id": params.RecipientID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count messages SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build count messages query: %w", err)
	}

	var totalItems int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count messages query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error counting messages: %w", err)
	}

	pagination := helpers.NewPaginationInfo(totalItems, params.Page, params.Size)
	if totalItems == 0 {
		return []*models.Message{}, pagination, nil
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Size)
	sqlStr, args, err := r.selectMessageQuery().
		Where(squirrel.Eq{"m.recipient_id": params.RecipientID}).
		OrderBy("m.created_at DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list messages SQL")
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to build list messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list messages query")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning message row during list")
			return nil, dto.PaginationInfo{}, fmt.Errorf("error scanning message row: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating message rows")
		return nil, dto.PaginationInfo{}, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, pagination, nil
}

// CountUnread returns how many messages the recipient has not opened yet
func (r *MessageRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	sql, args, err := r.sb.Select("count(*)").
		From("messages").
		Where(squirrel.Eq{"recipient_id": recipientID}).
		Where("read_at IS NULL").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count unread SQL")
		return 0, fmt.Errorf("failed to build count unread query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Int64("recipientID", recipientID).Msg("Error executing count unread query")
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}

	return count, nil
}

// MarkMessageRead stamps the first read time on a message. Repeated calls
// keep the original timestamp.
func (r *MessageRepository) MarkMessageRead(ctx context.Context, id int64, at time.Time) error {
	sql, args, err := r.sb.Update("messages").
		Set("read_at", squirrel.Expr("COALESCE(read_at, ?)", at)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building mark message read SQL")
		return fmt.Errorf("failed to build mark message read query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("messageID", id).Msg("Error executing mark message read query")
		return fmt.Errorf("error marking message read: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMessageNotFound
	}

	return nil
}
