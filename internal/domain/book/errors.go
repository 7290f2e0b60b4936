package book

// 校验文案，键为 "字段.标签" 或 "字段"
var messages = map[string]string{
	"title.required":     "书名不能为空",
	"title.keyword":      "书名必须以字母、数字或下划线开头",
	"rating":             "评分必须在0到5之间",
	"kind":               "图书类型必须是KINDLE或PRINT",
	"publisher.required": "出版社不能为空",
	"publisher":          "出版社必须是FOO_PUBLISHER或BAR_PUBLISHER",
	"price":              "价格不能为负数",
	"discount":           "折扣必须大于0且小于1",
	"published_on":       "出版日期格式必须是yyyy-MM-dd",
	"isbn.required":      "ISBN不能为空",
	"isbn":               "ISBN格式不正确",
	"homepage":           "主页必须是合法的绝对URI",
}
