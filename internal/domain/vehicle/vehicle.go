package vehicle

import (
	"github.com/xiebiao/catalog/internal/domain/catalog"
)

// 车辆类型
const (
	KindSedan = "SEDAN"
	KindSUV   = "SUV"
	KindVan   = "VAN"
)

// 制造商
const (
	ManufacturerFoo = "FOO_MOTORS"
	ManufacturerBar = "BAR_MOTORS"
)

// 位置标记
const (
	LocationShowroom  = "SHOWROOM"
	LocationWarehouse = "WAREHOUSE"
)

// 查询字段名
const (
	FieldModel        = "model"
	FieldSerialNumber = "serial_number"
)

// FamilyName 资源族名称
const FamilyName = "vehicle"

// Vehicle 车辆实体，Model为业务主键，SerialNumber为外部编号
type Vehicle struct {
	catalog.Meta

	Model        string   `json:"model" validate:"required,keyword"`
	Rating       int      `json:"rating" validate:"gte=0,lte=5"`
	Kind         string   `json:"kind" validate:"omitempty,oneof=SEDAN SUV VAN"`
	Manufacturer string   `json:"manufacturer" validate:"required,oneof=FOO_MOTORS BAR_MOTORS"`
	Price        float64  `json:"price" validate:"gte=0"`
	Discount     *float64 `json:"discount" validate:"omitempty,gt=0,lt=1"`
	Available    bool     `json:"available"`
	BuiltOn      string   `json:"built_on" validate:"omitempty,datetime=2006-01-02"`
	SerialNumber string   `json:"serial_number" validate:"omitempty,serial"`
	Homepage     string   `json:"homepage" validate:"omitempty,url"`
	Locations    []string `json:"locations"`
}

func (v *Vehicle) NaturalKey() string { return v.Model }

func (v *Vehicle) ExternalID() string { return v.SerialNumber }

func (v *Vehicle) SetExternalID(sn string) { v.SerialNumber = sn }

func (v *Vehicle) Tags() []string { return v.Locations }

func (v *Vehicle) FieldValue(field string) (any, bool) {
	switch field {
	case FieldModel:
		return v.Model, true
	case "rating":
		return v.Rating, true
	case "kind":
		return v.Kind, true
	case "manufacturer":
		return v.Manufacturer, true
	case "price":
		return v.Price, true
	case "discount":
		if v.Discount == nil {
			return nil, true
		}
		return *v.Discount, true
	case "available":
		return v.Available, true
	case "built_on":
		return v.BuiltOn, true
	case FieldSerialNumber:
		return v.SerialNumber, true
	case "homepage":
		return v.Homepage, true
	}
	return nil, false
}

var rules = catalog.NewRules(map[string]string{
	"model.required":         "型号不能为空",
	"model.keyword":          "型号必须以字母、数字或下划线开头",
	"rating":                 "评分必须在0到5之间",
	"kind":                   "车辆类型必须是SEDAN、SUV或VAN",
	"manufacturer.required":  "制造商不能为空",
	"manufacturer":           "制造商必须是FOO_MOTORS或BAR_MOTORS",
	"price":                  "价格不能为负数",
	"discount":               "折扣必须大于0且小于1",
	"built_on":               "出厂日期格式必须是yyyy-MM-dd",
	"serial_number.required": "序列号不能为空",
	"serial_number":          "序列号必须是带校验位的10位或13位编号",
	"homepage":               "主页必须是合法的绝对URI",
})

// Validate 校验车辆，创建时序列号必填
func Validate(v *Vehicle, op catalog.Op) []string {
	msgs := rules.Check(v)
	if op == catalog.OpCreate && v.SerialNumber == "" {
		msgs = append(msgs, rules.Message(FieldSerialNumber, "required"))
	}
	return msgs
}

// NewFamily 车辆资源族定义
func NewFamily() *catalog.Family[*Vehicle] {
	return &catalog.Family[*Vehicle]{
		Name:            FamilyName,
		KeyField:        FieldModel,
		ExternalIDField: FieldSerialNumber,
		Validator:       catalog.ValidatorFunc[*Vehicle](Validate),
		Filters: map[string]catalog.FilterParser{
			"rating":          catalog.IntFilter,
			"kind":            catalog.StringFilter,
			"manufacturer":    catalog.StringFilter,
			"price":           catalog.FloatFilter,
			"discount":        catalog.FloatFilter,
			"available":       catalog.BoolFilter,
			"built_on":        catalog.StringFilter,
			FieldSerialNumber: catalog.StringFilter,
			"homepage":        catalog.StringFilter,
		},
		Flags: map[string]string{
			"showroom":  LocationShowroom,
			"warehouse": LocationWarehouse,
		},
		Announce: func(v *Vehicle) (string, string) {
			return "新车辆 " + v.ID, "型号: " + v.Model
		},
	}
}
