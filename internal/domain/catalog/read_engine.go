package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/xiebiao/catalog/pkg/objectid"
)

// ReadEngine 按ID或查询条件读取资源
type ReadEngine[D Document] struct {
	family *Family[D]
	store  Store[D]
}

// NewReadEngine 创建读取引擎
func NewReadEngine[D Document](family *Family[D], store Store[D]) *ReadEngine[D] {
	return &ReadEngine[D]{family: family, store: store}
}

// Family 返回引擎所属的资源族
func (r *ReadEngine[D]) Family() *Family[D] {
	return r.family
}

// FindByID ID格式错误或资源不存在时found为false
func (r *ReadEngine[D]) FindByID(ctx context.Context, id string) (d D, found bool, err error) {
	id = objectid.Canonical(id)
	if !objectid.IsValid(id) {
		return d, false, nil
	}
	d, err = r.store.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return d, false, nil
	}
	if err != nil {
		return d, false, err
	}
	return d, true, nil
}

// Find 按查询参数检索，结果按业务主键排序
//
// 规则：
//   - 业务主键：少于10个字符时不区分大小写包含匹配，否则精确匹配
//   - 布尔标记（如 javascript=true）：要求资源包含对应标签
//   - 其他允许的字段：等值匹配
//   - 任何不在允许列表中的参数或无法解析的取值：返回空结果
func (r *ReadEngine[D]) Find(ctx context.Context, criteria map[string]string) ([]D, error) {
	q, ok := r.BuildQuery(criteria)
	if !ok {
		return []D{}, nil
	}

	docs, err := r.store.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].NaturalKey() < docs[j].NaturalKey()
	})
	return docs, nil
}

// BuildQuery 将查询参数转换为存储层查询，存在非法参数时ok为false
func (r *ReadEngine[D]) BuildQuery(criteria map[string]string) (q Query, ok bool) {
	// 按参数名排序，保证条件顺序稳定
	names := make([]string, 0, len(criteria))
	for name := range criteria {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw := criteria[name]

		if name == r.family.KeyField {
			q.Key = NewKeyMatch(raw)
			continue
		}

		if tag, isFlag := r.family.Flags[name]; isFlag {
			set, valid := BoolFilter(raw)
			if !valid {
				return Query{}, false
			}
			if set.(bool) {
				q.Tags = append(q.Tags, tag)
			}
			continue
		}

		parse, allowed := r.family.Filters[name]
		if !allowed {
			return Query{}, false
		}
		value, valid := parse(raw)
		if !valid {
			return Query{}, false
		}
		q.Conditions = append(q.Conditions, Condition{Field: name, Value: value})
	}
	return q, true
}
