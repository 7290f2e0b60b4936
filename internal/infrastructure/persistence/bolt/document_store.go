package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	boltdb "github.com/boltdb/bolt"

	"github.com/xiebiao/catalog/internal/domain/catalog"
)

var errIDExists = errors.New("bolt: document id already exists")

// DocumentStore 实现 catalog.Store
type DocumentStore[D catalog.Document] struct {
	db       *boltdb.DB
	newDoc   func() D
	keyField string
	extField string

	docs  []byte
	byKey []byte
	byExt []byte
}

// NewDocumentStore 创建资源族的存储并确保桶存在
func NewDocumentStore[D catalog.Document](db *boltdb.DB, family *catalog.Family[D], newDoc func() D) (*DocumentStore[D], error) {
	s := &DocumentStore[D]{
		db:       db,
		newDoc:   newDoc,
		keyField: family.KeyField,
		extField: family.ExternalIDField,
		docs:     []byte(family.Name),
		byKey:    []byte(family.Name + ".by_" + family.KeyField),
		byExt:    []byte(family.Name + ".by_" + family.ExternalIDField),
	}

	err := db.Update(func(tx *boltdb.Tx) error {
		for _, name := range [][]byte{s.docs, s.byKey, s.byExt} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("创建%s桶失败: %w", family.Name, err)
	}
	return s, nil
}

// FindByID 根据ID查找
func (s *DocumentStore[D]) FindByID(_ context.Context, id string) (D, error) {
	var d D
	err := s.db.View(func(tx *boltdb.Tx) error {
		raw := tx.Bucket(s.docs).Get([]byte(id))
		if raw == nil {
			return catalog.ErrNotFound
		}
		var err error
		d, err = s.decode(raw)
		return err
	})
	return d, err
}

// Find 全量扫描后在内存中过滤
func (s *DocumentStore[D]) Find(_ context.Context, q catalog.Query) ([]D, error) {
	result := []D{}
	err := s.db.View(func(tx *boltdb.Tx) error {
		return tx.Bucket(s.docs).ForEach(func(_, raw []byte) error {
			d, err := s.decode(raw)
			if err != nil {
				return err
			}
			if q.Matches(d) {
				result = append(result, d)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].NaturalKey() < result[j].NaturalKey()
	})
	return result, nil
}

// Insert 写入新文档，唯一索引冲突返回 *catalog.DuplicateError
func (s *DocumentStore[D]) Insert(_ context.Context, d D) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	id := []byte(d.Metadata().ID)

	return s.db.Update(func(tx *boltdb.Tx) error {
		docs, byKey, byExt := tx.Bucket(s.docs), tx.Bucket(s.byKey), tx.Bucket(s.byExt)

		if docs.Get(id) != nil {
			return errIDExists
		}
		if byKey.Get([]byte(d.NaturalKey())) != nil {
			return &catalog.DuplicateError{Field: s.keyField, Err: errors.New("index " + string(s.byKey))}
		}
		if ext := d.ExternalID(); ext != "" && byExt.Get([]byte(ext)) != nil {
			return &catalog.DuplicateError{Field: s.extField, Err: errors.New("index " + string(s.byExt))}
		}

		if err := docs.Put(id, raw); err != nil {
			return err
		}
		if err := byKey.Put([]byte(d.NaturalKey()), id); err != nil {
			return err
		}
		if ext := d.ExternalID(); ext != "" {
			return byExt.Put([]byte(ext), id)
		}
		return nil
	})
}

// Replace 在一个读写事务内比较版本并写入
func (s *DocumentStore[D]) Replace(_ context.Context, d D, expectedVersion int64) (int64, error) {
	meta := d.Metadata()
	id := []byte(meta.ID)
	var newVersion int64

	err := s.db.Update(func(tx *boltdb.Tx) error {
		docs, byKey := tx.Bucket(s.docs), tx.Bucket(s.byKey)

		raw := docs.Get(id)
		if raw == nil {
			return catalog.ErrNotFound
		}
		stored, err := s.decode(raw)
		if err != nil {
			return err
		}
		if stored.Metadata().Version != expectedVersion {
			return catalog.ErrVersionConflict
		}

		oldKey, newKey := []byte(stored.NaturalKey()), []byte(d.NaturalKey())
		if !bytes.Equal(oldKey, newKey) {
			if owner := byKey.Get(newKey); owner != nil && !bytes.Equal(owner, id) {
				return &catalog.DuplicateError{Field: s.keyField, Err: errors.New("index " + string(s.byKey))}
			}
			if err := byKey.Delete(oldKey); err != nil {
				return err
			}
			if err := byKey.Put(newKey, id); err != nil {
				return err
			}
		}

		// 外部编号与创建时间不可变
		candidate, err := json.Marshal(d)
		if err != nil {
			return err
		}
		next, err := s.decode(candidate)
		if err != nil {
			return err
		}
		nextMeta := next.Metadata()
		nextMeta.Version = expectedVersion + 1
		nextMeta.CreatedAt = stored.Metadata().CreatedAt
		next.SetExternalID(stored.ExternalID())

		out, err := json.Marshal(next)
		if err != nil {
			return err
		}
		newVersion = nextMeta.Version
		return docs.Put(id, out)
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

// Delete 删除文档与索引
func (s *DocumentStore[D]) Delete(_ context.Context, id string) (bool, error) {
	deleted := false
	err := s.db.Update(func(tx *boltdb.Tx) error {
		docs := tx.Bucket(s.docs)
		raw := docs.Get([]byte(id))
		if raw == nil {
			return nil
		}
		d, err := s.decode(raw)
		if err != nil {
			return err
		}

		if err := tx.Bucket(s.byKey).Delete([]byte(d.NaturalKey())); err != nil {
			return err
		}
		if ext := d.ExternalID(); ext != "" {
			if err := tx.Bucket(s.byExt).Delete([]byte(ext)); err != nil {
				return err
			}
		}
		if err := docs.Delete([]byte(id)); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// FindOwner 通过索引桶精确查找
func (s *DocumentStore[D]) FindOwner(_ context.Context, field, value string) (string, bool, error) {
	var bucket []byte
	switch field {
	case s.keyField:
		bucket = s.byKey
	case s.extField:
		bucket = s.byExt
	default:
		return "", false, fmt.Errorf("bolt: field %q is not indexed", field)
	}

	var owner string
	err := s.db.View(func(tx *boltdb.Tx) error {
		if id := tx.Bucket(bucket).Get([]byte(value)); id != nil {
			owner = string(id)
		}
		return nil
	})
	return owner, owner != "", err
}

func (s *DocumentStore[D]) decode(raw []byte) (D, error) {
	d := s.newDoc()
	if err := json.Unmarshal(raw, d); err != nil {
		var zero D
		return zero, fmt.Errorf("bolt: decode document: %w", err)
	}
	return d, nil
}
