package bolt

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/catalog/internal/domain/book"
	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/pkg/objectid"
)

func newBookStore(t *testing.T) *DocumentStore[*book.Book] {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewDocumentStore(db, book.NewFamily(), func() *book.Book { return &book.Book{} })
	require.NoError(t, err)
	return store
}

func newBook(title, isbn string) *book.Book {
	b := &book.Book{
		Title:     title,
		Publisher: book.PublisherFoo,
		ISBN:      isbn,
		Keywords:  []string{book.KeywordJavaScript},
	}
	b.ID = objectid.New()
	b.CreatedAt = time.Now().UTC().Truncate(time.Second)
	b.UpdatedAt = b.CreatedAt
	return b
}

func TestDocumentStore_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	store := newBookStore(t)

	b := newBook("Alpha", "9783897225831")
	require.NoError(t, store.Insert(ctx, b))

	got, err := store.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Title)
	assert.Equal(t, []string{book.KeywordJavaScript}, got.Keywords)
	assert.True(t, b.CreatedAt.Equal(got.CreatedAt))

	_, err = store.FindByID(ctx, objectid.New())
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	owner, found, err := store.FindOwner(ctx, book.FieldISBN, "9783897225831")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, b.ID, owner)

	_, found, err = store.FindOwner(ctx, book.FieldTitle, "alpha")
	require.NoError(t, err)
	assert.False(t, found, "精确匹配区分大小写")

	_, _, err = store.FindOwner(ctx, "publisher", "x")
	assert.Error(t, err)
}

func TestDocumentStore_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newBookStore(t)
	require.NoError(t, store.Insert(ctx, newBook("Alpha", "9783897225831")))

	var dup *catalog.DuplicateError

	err := store.Insert(ctx, newBook("Alpha", "0306406152"))
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, book.FieldTitle, dup.Field)

	err = store.Insert(ctx, newBook("Beta", "9783897225831"))
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, book.FieldISBN, dup.Field)
}

func TestDocumentStore_Replace(t *testing.T) {
	ctx := context.Background()
	store := newBookStore(t)
	b := newBook("Alpha", "9783897225831")
	require.NoError(t, store.Insert(ctx, b))

	t.Run("版本一致时写入并递增", func(t *testing.T) {
		next := newBook("Alpha Prime", "0306406152")
		next.ID = b.ID
		next.CreatedAt = time.Time{}

		v, err := store.Replace(ctx, next, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, v)

		got, err := store.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alpha Prime", got.Title)
		assert.Equal(t, "9783897225831", got.ISBN, "外部编号不可变")
		assert.True(t, b.CreatedAt.Equal(got.CreatedAt), "创建时间不可变")
		assert.EqualValues(t, 1, got.Version)
	})

	t.Run("改名后旧名称可被复用", func(t *testing.T) {
		_, found, err := store.FindOwner(ctx, book.FieldTitle, "Alpha")
		require.NoError(t, err)
		assert.False(t, found)

		owner, found, err := store.FindOwner(ctx, book.FieldTitle, "Alpha Prime")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, b.ID, owner)
	})

	t.Run("版本不一致", func(t *testing.T) {
		stale := newBook("Stale", "")
		stale.ID = b.ID
		_, err := store.Replace(ctx, stale, 0)
		assert.ErrorIs(t, err, catalog.ErrVersionConflict)

		got, _ := store.FindByID(ctx, b.ID)
		assert.Equal(t, "Alpha Prime", got.Title)
	})

	t.Run("名称被其他文档占用", func(t *testing.T) {
		other := newBook("Beta", "9780306406157")
		require.NoError(t, store.Insert(ctx, other))

		rename := newBook("Beta", "")
		rename.ID = b.ID
		_, err := store.Replace(ctx, rename, 1)

		var dup *catalog.DuplicateError
		assert.ErrorAs(t, err, &dup)
	})

	t.Run("文档不存在", func(t *testing.T) {
		missing := newBook("Ghost", "")
		_, err := store.Replace(ctx, missing, 0)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestDocumentStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := newBookStore(t)
	b := newBook("Alpha", "9783897225831")
	require.NoError(t, store.Insert(ctx, b))

	deleted, err := store.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	// 索引同步删除，名称和ISBN可以再次使用
	require.NoError(t, store.Insert(ctx, newBook("Alpha", "9783897225831")))
}

func TestDocumentStore_Query(t *testing.T) {
	ctx := context.Background()
	store := newBookStore(t)

	for _, b := range []*book.Book{
		newBook("Gamma", "9783897225831"),
		newBook("alpha", "0306406152"),
		newBook("Echo", "9780306406157"),
	} {
		require.NoError(t, store.Insert(ctx, b))
	}

	docs, err := store.Find(ctx, catalog.Query{Key: catalog.NewKeyMatch("A")})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Gamma", docs[0].Title, "按字节序排序，大写在前")
	assert.Equal(t, "alpha", docs[1].Title)

	docs, err = store.Find(ctx, catalog.Query{Tags: []string{book.KeywordTypeScript}})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

// 同一版本的并发更新只有一个成功
func TestDocumentStore_ConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	store := newBookStore(t)
	engine := catalog.NewWriteEngine(book.NewFamily(), catalog.Store[*book.Book](store), nil, nil)

	res, err := engine.Create(ctx, &book.Book{Title: "Alpha", Publisher: book.PublisherFoo, ISBN: "9783897225831"})
	require.NoError(t, err)
	id := res.(catalog.Created).ID

	const workers = 8
	results := make(chan catalog.UpdateResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := `"0"`
			res, err := engine.Update(ctx, id, &book.Book{Title: "Alpha", Publisher: book.PublisherBar}, &token)
			assert.NoError(t, err)
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	updated := 0
	for res := range results {
		switch res.(type) {
		case catalog.Updated:
			updated++
		case catalog.VersionOutdated:
		default:
			t.Errorf("意外的结果: %#v", res)
		}
	}
	assert.Equal(t, 1, updated)

	got, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Version)
}
