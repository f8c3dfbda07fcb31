// Package repository implements the create/get/list/update/delete contract
// shared by every persisted entity.
package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const (
	DefaultOffset = 0
	DefaultLimit  = 100
)

var tracer = otel.Tracer("github.com/zaqqye/exam_backend/internal/repository")

// Observer receives one call per finished operation.
type Observer interface {
	ObserveOperation(entity, operation, result string, elapsed time.Duration)
}

// Repository is the access contract for one entity type M.
type Repository[M any] struct {
	db         *gorm.DB
	pk         *schema.Field
	hasUpdated bool
	entity     string
	observer   Observer
}

// New parses M's schema once so later calls can find its primary key and
// whether it carries updated_at.
func New[M any](db *gorm.DB, observer Observer) (*Repository[M], error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(M)); err != nil {
		return nil, fmt.Errorf("repository: parse %T: %w", *new(M), err)
	}
	pk := stmt.Schema.PrioritizedPrimaryField
	if pk == nil {
		return nil, fmt.Errorf("repository: %s has no primary key", stmt.Schema.Table)
	}
	return &Repository[M]{
		db:         db,
		pk:         pk,
		hasUpdated: stmt.Schema.LookUpField("updated_at") != nil,
		entity:     stmt.Schema.Table,
		observer:   observer,
	}, nil
}

// Entity is the table name the repository serves.
func (r *Repository[M]) Entity() string {
	return r.entity
}

func (r *Repository[M]) Get(ctx context.Context, id string) (out *M, err error) {
	ctx, done := r.observe(ctx, "get")
	defer done(&err)

	return r.take(r.db.WithContext(ctx), id)
}

// List returns one unordered page.
func (r *Repository[M]) List(ctx context.Context, offset, limit int) (out []M, err error) {
	ctx, done := r.observe(ctx, "list")
	defer done(&err)

	out = make([]M, 0)
	if err = r.db.WithContext(ctx).Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		err = classify(err)
		return nil, err
	}
	return out, nil
}

// Create inserts m and returns the row as stored, generated fields included.
func (r *Repository[M]) Create(ctx context.Context, m *M) (out *M, err error) {
	ctx, done := r.observe(ctx, "create")
	defer done(&err)

	db := r.db.WithContext(ctx)
	if err = db.Create(m).Error; err != nil {
		err = classify(err)
		return nil, err
	}
	id, zero := r.pk.ValueOf(ctx, reflect.ValueOf(m).Elem())
	if zero {
		err = fmt.Errorf("repository: %s created without a primary key", r.entity)
		return nil, err
	}
	return r.take(db, fmt.Sprint(id))
}

// Update applies only the supplied columns. updated_at is always refreshed
// for entities that have it, so an empty change set still touches the row.
func (r *Repository[M]) Update(ctx context.Context, id string, changes map[string]interface{}) (out *M, err error) {
	ctx, done := r.observe(ctx, "update")
	defer done(&err)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.take(tx, id)
		if err != nil {
			return err
		}
		set := make(map[string]interface{}, len(changes)+1)
		for k, v := range changes {
			set[k] = v
		}
		if r.hasUpdated {
			set["updated_at"] = tx.NowFunc()
		}
		if len(set) > 0 {
			if err := tx.Model(current).Updates(set).Error; err != nil {
				return classify(err)
			}
		}
		out, err = r.take(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the row, letting the store fire its cascades, and returns
// the value it had just before.
func (r *Repository[M]) Delete(ctx context.Context, id string) (out *M, err error) {
	ctx, done := r.observe(ctx, "delete")
	defer done(&err)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := r.take(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(current).Error; err != nil {
			return classify(err)
		}
		out = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository[M]) take(db *gorm.DB, id string) (*M, error) {
	var m M
	err := db.Where(clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: r.pk.DBName},
		Value:  id,
	}).Take(&m).Error
	if err != nil {
		return nil, classify(err)
	}
	return &m, nil
}

func (r *Repository[M]) observe(ctx context.Context, op string) (context.Context, func(*error)) {
	ctx, span := tracer.Start(ctx, r.entity+"."+op)
	start := time.Now()
	return ctx, func(errp *error) {
		err := *errp
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		if r.observer != nil {
			r.observer.ObserveOperation(r.entity, op, resultOf(err), time.Since(start))
		}
	}
}
