package dto

import (
	"github.com/xiebiao/catalog/internal/domain/vehicle"
)

// VehicleRequest 创建/更新车辆请求体，更新时serial_number仍参与格式校验，校验通过后被丢弃
type VehicleRequest struct {
	Model        string   `json:"model" example:"Roadster"`
	Rating       int      `json:"rating" example:"5"`
	Kind         string   `json:"kind" example:"SEDAN"`
	Manufacturer string   `json:"manufacturer" example:"FOO_MOTORS"`
	Price        float64  `json:"price" example:"199999"`
	Discount     *float64 `json:"discount"`
	Available    bool     `json:"available"`
	BuiltOn      string   `json:"built_on" example:"2024-01-15"`
	SerialNumber string   `json:"serial_number" example:"9783897225831"`
	Homepage     string   `json:"homepage"`
	Locations    []string `json:"locations" example:"SHOWROOM"`
}

func (r *VehicleRequest) ToEntity() *vehicle.Vehicle {
	return &vehicle.Vehicle{
		Model:        r.Model,
		Rating:       r.Rating,
		Kind:         r.Kind,
		Manufacturer: r.Manufacturer,
		Price:        r.Price,
		Discount:     r.Discount,
		Available:    r.Available,
		BuiltOn:      r.BuiltOn,
		SerialNumber: r.SerialNumber,
		Homepage:     r.Homepage,
		Locations:    r.Locations,
	}
}

// VehicleResponse 车辆响应
type VehicleResponse struct {
	ID           string   `json:"id"`
	Version      int64    `json:"version"`
	Model        string   `json:"model"`
	Rating       int      `json:"rating"`
	Kind         string   `json:"kind,omitempty"`
	Manufacturer string   `json:"manufacturer"`
	Price        float64  `json:"price"`
	Discount     *float64 `json:"discount,omitempty"`
	Available    bool     `json:"available"`
	BuiltOn      string   `json:"built_on,omitempty"`
	SerialNumber string   `json:"serial_number"`
	Homepage     string   `json:"homepage,omitempty"`
	Locations    []string `json:"locations"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

func NewVehicleResponse(v *vehicle.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:           v.ID,
		Version:      v.Version,
		Model:        v.Model,
		Rating:       v.Rating,
		Kind:         v.Kind,
		Manufacturer: v.Manufacturer,
		Price:        v.Price,
		Discount:     v.Discount,
		Available:    v.Available,
		BuiltOn:      v.BuiltOn,
		SerialNumber: v.SerialNumber,
		Homepage:     v.Homepage,
		Locations:    nonNil(v.Locations),
		CreatedAt:    FormatTime(v.CreatedAt),
		UpdatedAt:    FormatTime(v.UpdatedAt),
	}
}

// VehicleCodec 车辆的请求/响应转换
var VehicleCodec = Codec[*vehicle.Vehicle]{
	NewRequest: func() Request[*vehicle.Vehicle] { return &VehicleRequest{} },
	Render:     func(v *vehicle.Vehicle) interface{} { return NewVehicleResponse(v) },
}
