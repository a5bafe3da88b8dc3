package repository

import (
	"context"
	"errors"
	"fmt"

	"foodgram/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrRelationExists is returned on a duplicate add. The unique pair
	// index resolves concurrent duplicate adds: the store rejects the
	// second insert and one of the two callers sees this error.
	ErrRelationExists = errors.New("relation already exists")
	// ErrRelationNotFound is returned when removing a pair that does not exist.
	ErrRelationNotFound = errors.New("relation not found")
)

// Relation is any of the three structurally identical (subject, object)
// join tables guarded by a unique pair constraint.
type Relation interface {
	models.Favorite | models.ShoppingCart | models.Subscription
}

// RelationRepo is the one generic implementation behind favorites,
// shopping carts and subscriptions. It is parameterized by the join
// model, the object id type and the subject/object column names.
type RelationRepo[T Relation, ID comparable] struct {
	db         *gorm.DB
	subjectCol string
	objectCol  string
}

func NewRelationRepo[T Relation, ID comparable](db *gorm.DB, subjectCol, objectCol string) *RelationRepo[T, ID] {
	return &RelationRepo[T, ID]{db: db, subjectCol: subjectCol, objectCol: objectCol}
}

// Add inserts the pair. Insert-or-reject, never a silent success.
func (r *RelationRepo[T, ID]) Add(ctx context.Context, rel *T) error {
	if err := r.db.WithContext(ctx).Create(rel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRelationExists
		}
		return fmt.Errorf("add relation: %w", err)
	}
	return nil
}

// Remove deletes the pair. The pair must exist.
func (r *RelationRepo[T, ID]) Remove(ctx context.Context, subjectID string, objectID ID) error {
	var rel T
	result := r.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ? AND %s = ?", r.subjectCol, r.objectCol), subjectID, objectID).
		Delete(&rel)

	if result.Error != nil {
		return fmt.Errorf("remove relation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRelationNotFound
	}
	return nil
}

func (r *RelationRepo[T, ID]) Exists(ctx context.Context, subjectID string, objectID ID) (bool, error) {
	var rel T
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&rel).
		Where(fmt.Sprintf("%s = ? AND %s = ?", r.subjectCol, r.objectCol), subjectID, objectID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ObjectIDs lists every object id bound to the subject, used to compute
// per-recipe flags over a listing in one query.
func (r *RelationRepo[T, ID]) ObjectIDs(ctx context.Context, subjectID string) ([]ID, error) {
	var rel T
	var ids []ID
	if err := r.db.WithContext(ctx).
		Model(&rel).
		Where(fmt.Sprintf("%s = ?", r.subjectCol), subjectID).
		Pluck(r.objectCol, &ids).Error; err != nil {
		return nil, fmt.Errorf("list relation objects: %w", err)
	}
	return ids, nil
}
