// Package objectid 生成与校验24位十六进制资源ID（12字节：4字节秒级时间戳 + 5字节随机数 + 3字节计数器）
package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strings"
	"sync/atomic"
	"time"
)

// Length ID字符串长度
const Length = 24

var (
	processUnique [5]byte
	counter       atomic.Uint32
)

func init() {
	if _, err := rand.Read(processUnique[:]); err != nil {
		panic("objectid: 无法读取随机数: " + err.Error())
	}
	var seed [4]byte
	_, _ = rand.Read(seed[:])
	counter.Store(binary.BigEndian.Uint32(seed[:]))
}

// New 生成新的ID，按时间大致有序
func New() string {
	return NewAt(time.Now())
}

// NewAt 以指定时间生成ID
func NewAt(t time.Time) string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(t.Unix()))
	copy(b[4:9], processUnique[:])

	n := counter.Add(1)
	b[9] = byte(n >> 16)
	b[10] = byte(n >> 8)
	b[11] = byte(n)

	return hex.EncodeToString(b[:])
}

// IsValid 判断是否为合法ID（24位十六进制，大小写均可）
func IsValid(id string) bool {
	if len(id) != Length {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// Canonical 返回ID的规范形式（小写）。存储和比较一律使用规范形式
func Canonical(id string) string {
	return strings.ToLower(id)
}
