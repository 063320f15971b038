package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dayronponce94/designer-platform-sub000/internal/utils"
	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	engagementTableName = "designhub.engagements"
	messageTableName    = "designhub.engagement_messages"
)

var (
	engagementColumns = utils.StructTagValues(types.Engagement{})
	messageColumns    = utils.StructTagValues(types.Message{})
)

// EngagementRepository persists engagements and their message threads.
// Attachments ride on the engagement row as jsonb; messages are insert-only
// rows so concurrent appends never contend.
type EngagementRepository struct {
	pool *pgxpool.Pool
}

func NewEngagementRepository(pool *pgxpool.Pool) *EngagementRepository {
	return &EngagementRepository{pool: pool}
}

func (r *EngagementRepository) Engagement(ctx context.Context, id string) (*types.Engagement, error) {
	query, args, err := psql().
		Select(engagementColumns...).
		From(engagementTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate engagement query: %w", err)
	}

	var e = new(types.Engagement)
	err = pgxscan.Get(ctx, r.pool, e, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrEngagementNotFound
		}
		return nil, fmt.Errorf("failed to fetch engagement: %w", err)
	}

	return e, nil
}

func (r *EngagementRepository) EngagementsByRequester(ctx context.Context, requesterID string) ([]*types.Engagement, error) {
	return r.selectEngagements(ctx, sq.Eq{"requester_id": requesterID})
}

func (r *EngagementRepository) EngagementsByFulfiller(ctx context.Context, fulfillerID string) ([]*types.Engagement, error) {
	return r.selectEngagements(ctx, sq.Eq{"fulfiller_id": fulfillerID})
}

func (r *EngagementRepository) Engagements(ctx context.Context) ([]*types.Engagement, error) {
	return r.selectEngagements(ctx, nil)
}

func (r *EngagementRepository) UnassignedEngagements(ctx context.Context) ([]*types.Engagement, error) {
	return r.selectEngagements(ctx, sq.Eq{"fulfiller_id": nil})
}

func (r *EngagementRepository) selectEngagements(ctx context.Context, where any) ([]*types.Engagement, error) {
	builder := psql().
		Select(engagementColumns...).
		From(engagementTableName).
		OrderBy("created_at desc")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate engagement list query: %w", err)
	}

	var engagements = make([]*types.Engagement, 0)
	if err := pgxscan.Select(ctx, r.pool, &engagements, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}

	return engagements, nil
}

func (r *EngagementRepository) CreateEngagement(ctx context.Context, e *types.Engagement) error {
	now := time.Now().UTC()
	e.ID = utils.NanoID()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Version == 0 {
		e.Version = 1
	}
	if e.Attachments == nil {
		e.Attachments = []types.Attachment{}
	}

	query, args, err := psql().
		Insert(engagementTableName).
		SetMap(utils.StructToMap(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert engagement query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create engagement")
}

// UpdateEngagement writes the full row back, guarded by the version the
// caller read. Zero rows affected means either a concurrent writer bumped
// the version or the row is gone; the two are told apart with a re-read.
func (r *EngagementRepository) UpdateEngagement(ctx context.Context, e *types.Engagement, expectedVersion int64) error {
	e.Version = expectedVersion + 1

	values := utils.StructToMap(e)
	delete(values, "id")
	delete(values, "requester_id")
	delete(values, "created_at")

	query, args, err := psql().
		Update(engagementTableName).
		SetMap(values).
		Where(sq.Eq{"id": e.ID, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update engagement query for %s: %w", e.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update engagement %s: %w", e.ID, err)
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.Engagement(ctx, e.ID); err != nil {
			return err
		}
		return types.ErrConflict
	}

	return nil
}

// DeleteEngagement removes the record and its message thread in one
// transaction.
func (r *EngagementRepository) DeleteEngagement(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	messageDelete, messageArgs, err := psql().
		Delete(messageTableName).
		Where(sq.Eq{"engagement_id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete messages query: %w", err)
	}

	if _, err := tx.Exec(ctx, messageDelete, messageArgs...); err != nil {
		return fmt.Errorf("failed to delete engagement messages: %w", err)
	}

	engagementDelete, engagementArgs, err := psql().
		Delete(engagementTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete engagement query: %w", err)
	}

	tag, err := tx.Exec(ctx, engagementDelete, engagementArgs...)
	if err != nil {
		return fmt.Errorf("failed to delete engagement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrEngagementNotFound
	}

	return tx.Commit(ctx)
}

func (r *EngagementRepository) Messages(ctx context.Context, engagementID string) ([]types.Message, error) {
	query, args, err := psql().
		Select(messageColumns...).
		From(messageTableName).
		Where(sq.Eq{"engagement_id": engagementID}).
		OrderBy("sent_at asc", "id asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate message list query: %w", err)
	}

	var messages = make([]types.Message, 0)
	if err := pgxscan.Select(ctx, r.pool, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

func (r *EngagementRepository) AppendMessage(ctx context.Context, m *types.Message) error {
	m.ID = utils.NanoID()
	m.SentAt = time.Now().UTC()
	if m.Attachments == nil {
		m.Attachments = []types.Attachment{}
	}

	query, args, err := psql().
		Insert(messageTableName).
		SetMap(utils.StructToMap(m)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert message query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to append message")
}
