// Package bolt BoltDB文档存储
//
// 每个资源族使用一个文档桶（JSON）和两个索引桶：
//
//	<family>               id            → 文档JSON
//	<family>.by_<key>      业务主键       → id
//	<family>.by_<extid>    外部编号       → id
//
// 所有写操作在同一个读写事务内完成检查与写入，
// BoltDB同一时刻只允许一个读写事务，因此版本比较并递增天然是原子的。
package bolt

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	boltdb "github.com/boltdb/bolt"
)

// Open 打开（或创建）数据库文件
func Open(path string) (*boltdb.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	db, err := boltdb.Open(path, 0o600, &boltdb.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("打开BoltDB失败: %w", err)
	}
	return db, nil
}
