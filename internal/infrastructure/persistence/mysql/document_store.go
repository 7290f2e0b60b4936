package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/catalog/internal/domain/catalog"
)

// Mapper 领域实体与GORM模型之间的转换
type Mapper[D catalog.Document, M any] interface {
	ToModel(d D) *M
	ToEntity(m *M, tags []string) D
}

// record GORM模型需要显式声明表名并暴露主键
type record interface {
	TableName() string
	PrimaryKey() string
}

// DocumentStore 实现 catalog.Store
// 1. 业务主键和外部编号的列名与资源族字段名一致
// 2. 标记存放在catalog_tags表，随资源在同一事务中写入
// 3. Replace使用 WHERE version = ? 做乐观锁
type DocumentStore[D catalog.Document, M record] struct {
	db       *gorm.DB
	tx       *TxManager
	mapper   Mapper[D, M]
	table    string
	keyField string
	extField string
}

// NewDocumentStore 创建资源族的SQL存储
func NewDocumentStore[D catalog.Document, M record](db *gorm.DB, family *catalog.Family[D], mapper Mapper[D, M]) *DocumentStore[D, M] {
	var zero M
	return &DocumentStore[D, M]{
		db:       db,
		tx:       NewTxManager(db),
		mapper:   mapper,
		table:    zero.TableName(),
		keyField: family.KeyField,
		extField: family.ExternalIDField,
	}
}

// FindByID 根据ID查找
func (s *DocumentStore[D, M]) FindByID(ctx context.Context, id string) (D, error) {
	var zero D
	var model M
	err := getDB(ctx, s.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, catalog.ErrNotFound
		}
		return zero, err
	}

	tags, err := s.loadTags(ctx, []string{id})
	if err != nil {
		return zero, err
	}
	return s.mapper.ToEntity(&model, tags[id]), nil
}

// Find 按条件查询
// - 业务主键：短值用 LOWER(col) LIKE 做不区分大小写的包含匹配，长值精确匹配
// - 标记：每个标记一个EXISTS子查询（须全部具备）
// - 其余条件：等值匹配
func (s *DocumentStore[D, M]) Find(ctx context.Context, q catalog.Query) ([]D, error) {
	tx := getDB(ctx, s.db).Model(new(M))
	keyColumn := clause.Column{Name: s.keyField}

	if q.Key != nil {
		if q.Key.Exact {
			tx = tx.Where(clause.Eq{Column: keyColumn, Value: q.Key.Value})
		} else {
			pattern := "%" + escapeLike(strings.ToLower(q.Key.Value)) + "%"
			tx = tx.Where(clause.Expr{SQL: "LOWER(?) LIKE ? ESCAPE '!'", Vars: []interface{}{keyColumn, pattern}})
		}
	}
	for _, tag := range q.Tags {
		tx = tx.Where(clause.Expr{
			SQL:  "EXISTS (SELECT 1 FROM catalog_tags t WHERE t.owner_id = ? AND t.tag = ?)",
			Vars: []interface{}{clause.Column{Table: s.table, Name: "id"}, tag},
		})
	}
	for _, c := range q.Conditions {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: c.Field}, Value: c.Value})
	}

	var models []M
	if err := tx.Order(clause.OrderByColumn{Column: keyColumn}).Find(&models).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(models))
	for i := range models {
		ids = append(ids, models[i].PrimaryKey())
	}
	tags, err := s.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]D, 0, len(models))
	for i := range models {
		result = append(result, s.mapper.ToEntity(&models[i], tags[ids[i]]))
	}
	return result, nil
}

// Insert 插入资源及其标记
func (s *DocumentStore[D, M]) Insert(ctx context.Context, d D) error {
	model := s.mapper.ToModel(d)
	id := d.Metadata().ID

	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := getDB(ctx, s.db).Create(model).Error; err != nil {
			return s.translate(err)
		}
		return s.replaceTags(ctx, id, d.Tags())
	})
}

// Replace 比较并替换
// 外部编号、创建时间不参与更新；受影响行数为0时再区分资源不存在与版本冲突
func (s *DocumentStore[D, M]) Replace(ctx context.Context, d D, expectedVersion int64) (int64, error) {
	id := d.Metadata().ID
	next := expectedVersion + 1

	d.Metadata().Version = next
	model := s.mapper.ToModel(d)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, s.db)
		res := db.Model(model).
			Where("version = ?", expectedVersion).
			Select("*").
			Omit("id", s.extField, "created_at").
			Updates(model)
		if res.Error != nil {
			return s.translate(res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := db.Model(new(M)).Where("id = ?", id).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return catalog.ErrNotFound
			}
			return catalog.ErrVersionConflict
		}
		return s.replaceTags(ctx, id, d.Tags())
	})
	if err != nil {
		d.Metadata().Version = expectedVersion
		return 0, err
	}
	return next, nil
}

// Delete 硬删除资源及其标记
func (s *DocumentStore[D, M]) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		db := getDB(ctx, s.db)
		if err := db.Where("owner_id = ?", id).Delete(&TagModel{}).Error; err != nil {
			return err
		}
		res := db.Where("id = ?", id).Delete(new(M))
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// FindOwner 只支持带唯一索引的两个字段
func (s *DocumentStore[D, M]) FindOwner(ctx context.Context, field, value string) (string, bool, error) {
	if field != s.keyField && field != s.extField {
		return "", false, errors.New("mysql: field " + field + " is not unique")
	}

	var ids []string
	err := getDB(ctx, s.db).Model(new(M)).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", false, err
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

// loadTags 批量加载标记，按资源ID分组并保持写入顺序
func (s *DocumentStore[D, M]) loadTags(ctx context.Context, ids []string) (map[string][]string, error) {
	result := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []TagModel
	err := getDB(ctx, s.db).Where("owner_id IN ?", ids).Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.OwnerID] = append(result[row.OwnerID], row.Tag)
	}
	return result, nil
}

func (s *DocumentStore[D, M]) replaceTags(ctx context.Context, id string, tags []string) error {
	db := getDB(ctx, s.db)
	if err := db.Where("owner_id = ?", id).Delete(&TagModel{}).Error; err != nil {
		return err
	}

	tags = uniqueTags(tags)
	if len(tags) == 0 {
		return nil
	}
	rows := make([]TagModel, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, TagModel{OwnerID: id, Tag: tag})
	}
	return db.Create(&rows).Error
}

// translate 唯一索引冲突转换为 *catalog.DuplicateError，按索引名或列名判断冲突字段
func (s *DocumentStore[D, M]) translate(err error) error {
	if !isDuplicateError(err) {
		return err
	}
	msg := err.Error()
	field := s.extField
	if strings.Contains(msg, "uk_"+s.table+"_"+s.keyField) || strings.Contains(msg, s.table+"."+s.keyField) {
		field = s.keyField
	}
	return &catalog.DuplicateError{Field: field, Err: err}
}
