package catalog

import (
	"regexp"
	"strconv"
)

// 版本令牌格式：双引号包裹的十进制整数，如 "0"
var versionTokenPattern = regexp.MustCompile(`^"(\d+)"$`)

// ParseVersion 解析版本令牌，格式不合法时ok为false
func ParseVersion(token string) (version int64, ok bool) {
	m := versionTokenPattern.FindStringSubmatch(token)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatVersion 生成版本令牌（用于ETag）
func FormatVersion(version int64) string {
	return `"` + strconv.FormatInt(version, 10) + `"`
}

// CheckVersion 候选版本不小于存储版本时允许更新
// 只拒绝过期的版本，大于存储版本的令牌同样放行
func CheckVersion(candidate, stored int64) bool {
	return candidate >= stored
}
