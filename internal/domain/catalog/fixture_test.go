package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// gadget 测试用资源
type gadget struct {
	Meta
	Name     string   `json:"name" validate:"required,keyword"`
	Rating   int      `json:"rating" validate:"gte=0,lte=5"`
	Price    float64  `json:"price" validate:"gte=0"`
	Discount *float64 `json:"discount" validate:"omitempty,gt=0,lt=1"`
	Code     string   `json:"code" validate:"omitempty,isbn"`
	Homepage string   `json:"homepage" validate:"omitempty,url"`
	Labels   []string `json:"labels"`
}

func (g *gadget) NaturalKey() string      { return g.Name }
func (g *gadget) ExternalID() string      { return g.Code }
func (g *gadget) SetExternalID(id string) { g.Code = id }
func (g *gadget) Tags() []string          { return g.Labels }

func (g *gadget) FieldValue(field string) (any, bool) {
	switch field {
	case "name":
		return g.Name, true
	case "rating":
		return g.Rating, true
	case "price":
		return g.Price, true
	case "code":
		return g.Code, true
	}
	return nil, false
}

func (g *gadget) clone() *gadget {
	c := *g
	c.Labels = append([]string(nil), g.Labels...)
	if g.Discount != nil {
		d := *g.Discount
		c.Discount = &d
	}
	return &c
}

var gadgetRules = NewRules(map[string]string{
	"name.required": "名称不能为空",
	"name.keyword":  "名称必须以字母、数字或下划线开头",
	"rating":        "评分必须在0到5之间",
	"price":         "价格不能为负数",
	"discount":      "折扣必须大于0且小于1",
	"code":          "编号格式不正确",
	"code.required": "编号不能为空",
	"homepage":      "主页必须是合法的绝对地址",
})

func gadgetFamily() *Family[*gadget] {
	return &Family[*gadget]{
		Name:            "gadget",
		KeyField:        "name",
		ExternalIDField: "code",
		Validator: ValidatorFunc[*gadget](func(g *gadget, op Op) []string {
			msgs := gadgetRules.Check(g)
			if op == OpCreate && g.Code == "" {
				msgs = append(msgs, gadgetRules.Message("code", "required"))
			}
			return msgs
		}),
		Filters: map[string]FilterParser{
			"rating": IntFilter,
			"price":  FloatFilter,
			"code":   StringFilter,
		},
		Flags: map[string]string{"red": "RED", "blue": "BLUE"},
		Announce: func(g *gadget) (string, string) {
			return "新资源 " + g.ID, "名称: " + g.Name
		},
	}
}

func ptr(f float64) *float64 { return &f }

// memStore 内存存储，Replace在互斥锁内比较并递增版本号
type memStore struct {
	mu   sync.Mutex
	docs map[string]*gadget

	// beforeFind 在FindByID返回前调用（用于构造并发场景）
	beforeFind func()
	failWith   error
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]*gadget)}
}

func (s *memStore) FindByID(_ context.Context, id string) (*gadget, error) {
	s.mu.Lock()
	g, ok := s.docs[id]
	var out *gadget
	if ok {
		out = g.clone()
	}
	s.mu.Unlock()

	if s.beforeFind != nil {
		s.beforeFind()
	}
	if !ok {
		return nil, ErrNotFound
	}
	return out, nil
}

func (s *memStore) Find(_ context.Context, q Query) ([]*gadget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}

	var out []*gadget
	for _, g := range s.docs {
		if q.Matches(g) {
			out = append(out, g.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memStore) Insert(_ context.Context, g *gadget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for _, existing := range s.docs {
		if existing.Name == g.Name {
			return &DuplicateError{Field: "name", Err: errors.New("unique name")}
		}
		if existing.Code == g.Code {
			return &DuplicateError{Field: "code", Err: errors.New("unique code")}
		}
	}
	s.docs[g.ID] = g.clone()
	return nil
}

func (s *memStore) Replace(_ context.Context, g *gadget, expected int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.docs[g.ID]
	if !ok {
		return 0, ErrNotFound
	}
	if stored.Version != expected {
		return 0, ErrVersionConflict
	}
	next := g.clone()
	next.Version = expected + 1
	next.Code = stored.Code
	next.CreatedAt = stored.CreatedAt
	s.docs[g.ID] = next
	return next.Version, nil
}

func (s *memStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return false, nil
	}
	delete(s.docs, id)
	return true, nil
}

func (s *memStore) FindOwner(_ context.Context, field, value string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return "", false, s.failWith
	}
	for id, g := range s.docs {
		v, ok := g.FieldValue(field)
		if ok && v == value {
			return id, true, nil
		}
	}
	return "", false, nil
}

// recordingNotifier 记录发送的通知
type recordingNotifier struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (n *recordingNotifier) Send(_ context.Context, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	return n.err
}
