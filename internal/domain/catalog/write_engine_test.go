package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(store Store[*gadget], notifier Notifier) *WriteEngine[*gadget] {
	logger, _ := test.NewNullLogger()
	return NewWriteEngine(gadgetFamily(), store, notifier, logger)
}

func alpha() *gadget {
	return &gadget{Name: "Alpha", Code: "9783897225831", Price: 11.1, Discount: ptr(0.011), Labels: []string{"RED"}}
}

func token(s string) *string { return &s }

func mustCreate(t *testing.T, e *WriteEngine[*gadget], g *gadget) string {
	t.Helper()
	res, err := e.Create(context.Background(), g)
	require.NoError(t, err)
	created, ok := res.(Created)
	require.True(t, ok, "创建失败: %#v", res)
	return created.ID
}

func TestWriteEngine_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("创建成功版本号为0", func(t *testing.T) {
		store := newMemStore()
		notifier := &recordingNotifier{}
		e := newEngine(store, notifier)

		res, err := e.Create(ctx, alpha())
		require.NoError(t, err)

		created := res.(Created)
		assert.Len(t, created.ID, 24)
		assert.EqualValues(t, 0, created.Version)

		stored, err := store.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alpha", stored.Name)
		assert.Equal(t, "9783897225831", stored.Code)
		assert.EqualValues(t, 0, stored.Version)
		assert.False(t, stored.CreatedAt.IsZero())
		assert.Equal(t, []string{"新资源 " + created.ID}, notifier.subjects)
	})

	t.Run("校验失败", func(t *testing.T) {
		store := newMemStore()
		e := newEngine(store, nil)

		res, err := e.Create(ctx, &gadget{Name: "Beta", Rating: 9, Price: -3})
		require.NoError(t, err)

		assert.Equal(t, Invalid{Messages: []string{"评分必须在0到5之间", "价格不能为负数", "编号不能为空"}}, res)
		assert.Empty(t, store.docs)
	})

	t.Run("业务主键重复", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)
		id := mustCreate(t, e, alpha())

		dup := alpha()
		dup.Code = "0306406152"
		res, err := e.Create(ctx, dup)
		require.NoError(t, err)
		assert.Equal(t, KeyExists{Key: "Alpha", OwnerID: id}, res)
	})

	t.Run("业务主键区分大小写", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)
		mustCreate(t, e, alpha())

		other := alpha()
		other.Name = "alpha"
		other.Code = "0306406152"
		mustCreate(t, e, other)
	})

	t.Run("外部编号重复", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)
		mustCreate(t, e, alpha())

		dup := alpha()
		dup.Name = "Beta"
		res, err := e.Create(ctx, dup)
		require.NoError(t, err)
		assert.Equal(t, ExternalIDExists{ExternalID: "9783897225831"}, res)
	})

	t.Run("通知失败不影响创建", func(t *testing.T) {
		logger, hook := test.NewNullLogger()
		notifier := &recordingNotifier{err: errors.New("smtp down")}
		e := NewWriteEngine(gadgetFamily(), Store[*gadget](newMemStore()), Notifier(notifier), logger)

		res, err := e.Create(ctx, alpha())
		require.NoError(t, err)
		assert.IsType(t, Created{}, res)

		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})

	t.Run("存储故障返回error", func(t *testing.T) {
		store := newMemStore()
		store.failWith = errors.New("disk full")
		e := newEngine(store, nil)

		res, err := e.Create(ctx, alpha())
		assert.Nil(t, res)
		assert.EqualError(t, err, "disk full")
	})
}

func TestWriteEngine_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("更新后版本号加一且外部编号不变", func(t *testing.T) {
		store := newMemStore()
		e := newEngine(store, nil)
		id := mustCreate(t, e, alpha())

		candidate := &gadget{Name: "Alpha 2", Code: "0306406152", Rating: 3}
		res, err := e.Update(ctx, id, candidate, token(`"0"`))
		require.NoError(t, err)
		assert.Equal(t, Updated{ID: id, Version: 1}, res)

		stored, err := store.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Alpha 2", stored.Name)
		assert.Equal(t, 3, stored.Rating)
		assert.Equal(t, "9783897225831", stored.Code)
		assert.Nil(t, stored.Discount, "未提供的字段被清空")
		assert.Empty(t, stored.Labels)
		assert.EqualValues(t, 1, stored.Version)
	})

	t.Run("省略外部编号", func(t *testing.T) {
		store := newMemStore()
		e := newEngine(store, nil)
		id := mustCreate(t, e, alpha())

		res, err := e.Update(ctx, id, &gadget{Name: "Alpha"}, token(`"0"`))
		require.NoError(t, err)
		assert.Equal(t, Updated{ID: id, Version: 1}, res)

		stored, _ := store.FindByID(ctx, id)
		assert.Equal(t, "9783897225831", stored.Code)
	})

	t.Run("缺少版本令牌", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)
		id := mustCreate(t, e, alpha())

		res, err := e.Update(ctx, id, alpha(), nil)
		require.NoError(t, err)
		assert.Equal(t, MissingPrecondition{}, res)
	})

	t.Run("版本令牌格式错误优先于校验", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)
		id := mustCreate(t, e, alpha())

		res, err := e.Update(ctx, id, &gadget{Rating: 10}, token(`"-1"`))
		require.NoError(t, err)
		assert.Equal(t, VersionInvalid{Token: `"-1"`}, res)
	})

	t.Run("校验失败", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)
		id := mustCreate(t, e, alpha())

		res, err := e.Update(ctx, id, &gadget{Name: "Alpha", Rating: 10}, token(`"0"`))
		require.NoError(t, err)
		assert.Equal(t, Invalid{Messages: []string{"评分必须在0到5之间"}}, res)
	})

	t.Run("业务主键被其他资源占用", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)
		alphaID := mustCreate(t, e, alpha())
		betaID := mustCreate(t, e, &gadget{Name: "Beta", Code: "0306406152"})

		res, err := e.Update(ctx, betaID, &gadget{Name: "Alpha"}, token(`"0"`))
		require.NoError(t, err)
		assert.Equal(t, KeyExists{Key: "Alpha", OwnerID: alphaID}, res)
	})

	t.Run("唯一性检查先于存在性检查", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)
		alphaID := mustCreate(t, e, alpha())

		res, err := e.Update(ctx, "ffffffffffffffffffffffff", &gadget{Name: "Alpha"}, token(`"0"`))
		require.NoError(t, err)
		assert.Equal(t, KeyExists{Key: "Alpha", OwnerID: alphaID}, res)
	})

	t.Run("资源不存在", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)

		res, err := e.Update(ctx, "ffffffffffffffffffffffff", alpha(), token(`"0"`))
		require.NoError(t, err)
		assert.Equal(t, NotExists{ID: "ffffffffffffffffffffffff"}, res)

		res, err = e.Update(ctx, "not-an-id", alpha(), token(`"0"`))
		require.NoError(t, err)
		assert.Equal(t, NotExists{ID: "not-an-id"}, res)
	})

	t.Run("过期版本", func(t *testing.T) {
		store := newMemStore()
		e := newEngine(store, nil)
		id := mustCreate(t, e, alpha())

		_, err := e.Update(ctx, id, alpha(), token(`"0"`))
		require.NoError(t, err)

		res, err := e.Update(ctx, id, &gadget{Name: "Stale"}, token(`"0"`))
		require.NoError(t, err)
		assert.Equal(t, VersionOutdated{ID: id, Version: 0}, res)

		stored, _ := store.FindByID(ctx, id)
		assert.Equal(t, "Alpha", stored.Name, "过期写入不修改数据")
		assert.EqualValues(t, 1, stored.Version)
	})

	t.Run("大于存储版本的令牌被接受", func(t *testing.T) {
		e := newEngine(newMemStore(), nil)
		id := mustCreate(t, e, alpha())

		res, err := e.Update(ctx, id, alpha(), token(`"5"`))
		require.NoError(t, err)
		assert.Equal(t, Updated{ID: id, Version: 1}, res)
	})
}

// 大写形式的ID与小写形式指向同一资源
func TestWriteEngine_UpperCaseID(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	e := newEngine(store, nil)
	id := mustCreate(t, e, alpha())
	upper := strings.ToUpper(id)

	res, err := e.Update(ctx, upper, alpha(), token(`"0"`))
	require.NoError(t, err)
	assert.Equal(t, Updated{ID: id, Version: 1}, res, "不应与自身冲突")

	reader := NewReadEngine(gadgetFamily(), Store[*gadget](store))
	g, found, err := reader.FindByID(ctx, upper)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, id, g.ID)

	deleted, err := e.Delete(ctx, upper)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestWriteEngine_ConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	e := newEngine(store, nil)
	id := mustCreate(t, e, alpha())

	// 两个请求都读到版本0之后才继续
	var barrier sync.WaitGroup
	barrier.Add(2)
	store.beforeFind = func() {
		barrier.Done()
		barrier.Wait()
	}

	results := make([]UpdateResult, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.Update(ctx, id, alpha(), token(`"0"`))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	var updated, outdated int
	for _, res := range results {
		switch res.(type) {
		case Updated:
			updated++
		case VersionOutdated:
			outdated++
		}
	}
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, outdated)

	store.beforeFind = nil
	stored, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stored.Version)
}

func TestWriteEngine_Delete(t *testing.T) {
	ctx := context.Background()
	e := newEngine(newMemStore(), nil)
	id := mustCreate(t, e, alpha())

	deleted, err := e.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = e.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted, "重复删除不报错")

	deleted, err = e.Delete(ctx, "xyz")
	require.NoError(t, err)
	assert.False(t, deleted)
}

// 完整场景：创建 → 重复创建 → 更新 → 过期更新 → 非法令牌
func TestWriteEngine_Scenario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	e := newEngine(store, nil)
	reader := NewReadEngine(gadgetFamily(), Store[*gadget](store))

	res, err := e.Create(ctx, &gadget{Name: "Alpha", Code: "9783897225831", Price: 11.1, Discount: ptr(0.011)})
	require.NoError(t, err)
	id := res.(Created).ID

	found, ok, err := reader.FindByID(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 0, found.Version)
	assert.Equal(t, 11.1, found.Price)
	assert.Equal(t, 0.011, *found.Discount)

	res, err = e.Create(ctx, &gadget{Name: "Alpha", Code: "0306406152"})
	require.NoError(t, err)
	assert.Equal(t, KeyExists{Key: "Alpha", OwnerID: id}, res)

	upd, err := e.Update(ctx, id, &gadget{Name: "Alpha", Price: 12}, token(`"0"`))
	require.NoError(t, err)
	assert.Equal(t, Updated{ID: id, Version: 1}, upd)

	upd, err = e.Update(ctx, id, &gadget{Name: "Alpha", Price: 13}, token(`"0"`))
	require.NoError(t, err)
	assert.Equal(t, VersionOutdated{ID: id, Version: 0}, upd)

	upd, err = e.Update(ctx, id, &gadget{Name: "Alpha"}, token(`"-1"`))
	require.NoError(t, err)
	assert.Equal(t, VersionInvalid{Token: `"-1"`}, upd)
}
