package database

import (
	"context"
	"fmt"
	"reflect"
	"slices"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Entity is a record mapped to a table and identified by a generated
// unsigned integer key.
type Entity interface {
	TableName() string
	EntityID() uint
}

// Filters maps column names to the values they must equal.
type Filters map[string]any

// Scope narrows or decorates a query. Same shape as gorm's Scopes argument.
type Scope = func(*gorm.DB) *gorm.DB

// OrderByID sorts results by primary key, oldest first.
func OrderByID(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}})
}

// ByID restricts a query to the row with the given primary key.
func ByID(id uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}, Value: id})
	}
}

// Repository provides CRUD operations for one entity type. Every method runs
// in its own transaction and is retried by the Manager on transient failures.
type Repository[T Entity] struct {
	m     *Manager
	table string
}

// NewRepository returns a repository for T backed by m.
func NewRepository[T Entity](m *Manager) *Repository[T] {
	var zero T
	return &Repository[T]{m: m, table: zero.TableName()}
}

// Manager returns the manager the repository runs on.
func (r *Repository[T]) Manager() *Manager {
	return r.m
}

func (r *Repository[T]) op(name string) string {
	return r.table + "." + name
}

// Create validates entity and inserts it, populating its ID. Invalid input
// is rejected before the database is touched. Associations are not saved.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	if err := Validate(entity); err != nil {
		return err
	}
	return r.m.Run(ctx, r.op("create"), func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(entity).Error
	})
}

// CreateMany validates every entity and inserts them in a single
// transaction. One invalid entity rejects the whole batch.
func (r *Repository[T]) CreateMany(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	for i, entity := range entities {
		if err := Validate(entity); err != nil {
			return fmt.Errorf("%s[%d]: %w", r.table, i, err)
		}
	}
	return r.m.Run(ctx, r.op("create_many"), func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).CreateInBatches(entities, 100).Error
	})
}

// GetByID returns the row with the given ID, or nil when there is none.
func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	if id == 0 {
		return nil, invalid("id", "must be positive")
	}
	return r.FirstScoped(ctx, ByID(id))
}

// GetAll returns rows ordered by ID. A limit of zero or less returns every row.
func (r *Repository[T]) GetAll(ctx context.Context, limit int) ([]T, error) {
	scopes := []Scope{OrderByID}
	if limit > 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Limit(limit) })
	}
	return r.FindScoped(ctx, scopes...)
}

// FindBy returns the rows whose columns equal every value in filters,
// ordered by ID. Unknown columns are a validation error.
func (r *Repository[T]) FindBy(ctx context.Context, filters Filters) ([]T, error) {
	where, err := r.where(filters)
	if err != nil {
		return nil, err
	}
	return r.FindScoped(ctx, where, OrderByID)
}

// FindScoped returns the rows matching the given scopes. The result is an
// empty slice, never nil, when nothing matches.
func (r *Repository[T]) FindScoped(ctx context.Context, scopes ...Scope) ([]T, error) {
	out := make([]T, 0)
	err := r.m.Run(ctx, r.op("find"), func(tx *gorm.DB) error {
		return tx.Scopes(scopes...).Find(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FirstScoped returns the first row matching the given scopes, or nil when
// there is none.
func (r *Repository[T]) FirstScoped(ctx context.Context, scopes ...Scope) (*T, error) {
	var (
		out   T
		found bool
	)
	err := r.m.Run(ctx, r.op("get"), func(tx *gorm.DB) error {
		res := tx.Scopes(scopes...).Limit(1).Find(&out)
		found = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &out, nil
}

// Update saves every field of entity. The entity must carry the ID of an
// existing row; otherwise ErrNotFound is returned and the table is left
// unchanged. On success entity is refreshed from the database.
func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	if entity == nil {
		return invalid("entity", "must not be nil")
	}
	id := (*entity).EntityID()
	if id == 0 {
		return invalid("id", "is required for update")
	}
	if err := Validate(entity); err != nil {
		return err
	}

	return r.m.Run(ctx, r.op("update"), func(tx *gorm.DB) error {
		if err := r.mustExist(tx, id); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations, "CreatedAt").Save(entity).Error; err != nil {
			return err
		}
		return tx.First(entity, id).Error
	})
}

// UpdateFields loads the row with the given ID, applies fields to it,
// validates the merged result and saves it.
func (r *Repository[T]) UpdateFields(ctx context.Context, id uint, fields Filters) (*T, error) {
	if id == 0 {
		return nil, invalid("id", "must be positive")
	}
	sch, err := r.schema()
	if err != nil {
		return nil, err
	}
	resolved := make(map[*schema.Field]any, len(fields))
	for _, key := range sortedKeys(fields) {
		field, err := lookUpColumn(sch, key)
		if err != nil {
			return nil, err
		}
		if field.PrimaryKey || field.AutoCreateTime != 0 || field.AutoUpdateTime != 0 {
			return nil, invalid(key, "cannot be updated")
		}
		if !compatible(field, fields[key]) {
			return nil, invalid(field.DBName, fmt.Sprintf("must be a %s, got %T", field.IndirectFieldType.Kind(), fields[key]))
		}
		resolved[field] = fields[key]
	}

	var out T
	err = r.m.Run(ctx, r.op("update_fields"), func(tx *gorm.DB) error {
		res := tx.Limit(1).Find(&out, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(r.table, id)
		}

		target := reflect.ValueOf(&out).Elem()
		for field, value := range resolved {
			if err := field.Set(tx.Statement.Context, target, value); err != nil {
				return invalid(field.DBName, fmt.Sprintf("cannot be set to %v", value))
			}
		}
		if err := Validate(&out); err != nil {
			return err
		}
		return tx.Omit(clause.Associations, "CreatedAt").Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the row with the given ID and reports whether one existed.
func (r *Repository[T]) Delete(ctx context.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var deleted bool
	err := r.m.Run(ctx, r.op("delete"), func(tx *gorm.DB) error {
		res := tx.Delete(new(T), id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Count returns the number of rows matching filters. Nil filters count every row.
func (r *Repository[T]) Count(ctx context.Context, filters Filters) (int64, error) {
	where, err := r.where(filters)
	if err != nil {
		return 0, err
	}
	return r.CountScoped(ctx, where)
}

// CountScoped returns the number of rows matching the given scopes.
func (r *Repository[T]) CountScoped(ctx context.Context, scopes ...Scope) (int64, error) {
	var n int64
	err := r.m.Run(ctx, r.op("count"), func(tx *gorm.DB) error {
		return tx.Model(new(T)).Scopes(scopes...).Count(&n).Error
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository[T]) mustExist(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(new(T)).Scopes(ByID(id)).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound(r.table, id)
	}
	return nil
}

func (r *Repository[T]) schema() (*schema.Schema, error) {
	sch, err := schema.Parse(new(T), &r.m.schemas, r.m.db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s schema: %w", ErrOperation, r.table, err)
	}
	return sch, nil
}

// where turns filters into an equality scope after checking every key
// names a real column.
func (r *Repository[T]) where(filters Filters) (Scope, error) {
	if len(filters) == 0 {
		return func(db *gorm.DB) *gorm.DB { return db }, nil
	}
	sch, err := r.schema()
	if err != nil {
		return nil, err
	}

	exprs := make([]clause.Expression, 0, len(filters))
	for _, key := range sortedKeys(filters) {
		field, err := lookUpColumn(sch, key)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: field.DBName},
			Value:  filters[key],
		})
	}
	return func(db *gorm.DB) *gorm.DB { return db.Where(clause.And(exprs...)) }, nil
}

func lookUpColumn(sch *schema.Schema, key string) (*schema.Field, error) {
	field := sch.LookUpField(key)
	if field == nil || field.DBName == "" {
		return nil, invalid(key, fmt.Sprintf("is not a column of %s", sch.Table))
	}
	return field, nil
}

// compatible reports whether value can be stored in field without a lossy
// conversion. Integers may cross signedness when they fit; nothing else
// changes kind.
func compatible(field *schema.Field, value any) bool {
	want := field.IndirectFieldType
	got := reflect.Indirect(reflect.ValueOf(value))
	if !got.IsValid() {
		return field.FieldType.Kind() == reflect.Ptr
	}

	switch {
	case isUnsigned(want.Kind()):
		return isUnsigned(got.Kind()) || isSigned(got.Kind()) && got.Int() >= 0
	case isSigned(want.Kind()):
		return isSigned(got.Kind()) || isUnsigned(got.Kind())
	case want.Kind() == reflect.Float32 || want.Kind() == reflect.Float64:
		return got.CanFloat() || got.CanInt() || got.CanUint()
	default:
		return got.Type().AssignableTo(want) || got.Kind() == want.Kind() && got.Type().ConvertibleTo(want)
	}
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func sortedKeys(filters Filters) []string {
	keys := lo.Keys(filters)
	slices.Sort(keys)
	return keys
}
