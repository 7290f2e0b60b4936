package mysql

import (
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/catalog/internal/domain/book"
	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/internal/domain/vehicle"
)

// BookMapper 图书实体 ↔ BookModel
type BookMapper struct{}

func (BookMapper) ToModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:          b.ID,
		Version:     b.Version,
		Title:       b.Title,
		Rating:      b.Rating,
		Kind:        b.Kind,
		Publisher:   b.Publisher,
		Price:       b.Price,
		Discount:    b.Discount,
		Available:   b.Available,
		PublishedOn: b.PublishedOn,
		ISBN:        b.ISBN,
		Homepage:    b.Homepage,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (BookMapper) ToEntity(m *BookModel, tags []string) *book.Book {
	return &book.Book{
		Meta:        meta(m.ID, m.Version, m.CreatedAt, m.UpdatedAt),
		Title:       m.Title,
		Rating:      m.Rating,
		Kind:        m.Kind,
		Publisher:   m.Publisher,
		Price:       m.Price,
		Discount:    m.Discount,
		Available:   m.Available,
		PublishedOn: m.PublishedOn,
		ISBN:        m.ISBN,
		Homepage:    m.Homepage,
		Keywords:    tags,
	}
}

// VehicleMapper 车辆实体 ↔ VehicleModel
type VehicleMapper struct{}

func (VehicleMapper) ToModel(v *vehicle.Vehicle) *VehicleModel {
	return &VehicleModel{
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
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func (VehicleMapper) ToEntity(m *VehicleModel, tags []string) *vehicle.Vehicle {
	return &vehicle.Vehicle{
		Meta:         meta(m.ID, m.Version, m.CreatedAt, m.UpdatedAt),
		Model:        m.Model,
		Rating:       m.Rating,
		Kind:         m.Kind,
		Manufacturer: m.Manufacturer,
		Price:        m.Price,
		Discount:     m.Discount,
		Available:    m.Available,
		BuiltOn:      m.BuiltOn,
		SerialNumber: m.SerialNumber,
		Homepage:     m.Homepage,
		Locations:    tags,
	}
}

// NewBookStore 图书的SQL存储
func NewBookStore(db *gorm.DB) *DocumentStore[*book.Book, BookModel] {
	return NewDocumentStore[*book.Book, BookModel](db, book.NewFamily(), BookMapper{})
}

// NewVehicleStore 车辆的SQL存储
func NewVehicleStore(db *gorm.DB) *DocumentStore[*vehicle.Vehicle, VehicleModel] {
	return NewDocumentStore[*vehicle.Vehicle, VehicleModel](db, vehicle.NewFamily(), VehicleMapper{})
}

func meta(id string, version int64, createdAt, updatedAt time.Time) catalog.Meta {
	return catalog.Meta{ID: id, Version: version, CreatedAt: createdAt, UpdatedAt: updatedAt}
}
