package catalog

import (
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/catalog/internal/domain/catalog"
)

// UseCases 一个资源族的全部用例，由HTTP层的ResourceHandler使用
type UseCases[D catalog.Document] struct {
	Family *catalog.Family[D]
	Create *CreateUseCase[D]
	Update *UpdateUseCase[D]
	Delete *DeleteUseCase[D]
	Get    *GetUseCase[D]
	List   *ListUseCase[D]
}

// NewUseCases 基于同一个存储组装读写引擎与用例
func NewUseCases[D catalog.Document](family *catalog.Family[D], store catalog.Store[D], notifier catalog.Notifier, logger logrus.FieldLogger) *UseCases[D] {
	writer := catalog.NewWriteEngine(family, store, notifier, logger)
	reader := catalog.NewReadEngine(family, store)

	return &UseCases[D]{
		Family: family,
		Create: NewCreateUseCase(writer),
		Update: NewUpdateUseCase(writer),
		Delete: NewDeleteUseCase(writer),
		Get:    NewGetUseCase(reader),
		List:   NewListUseCase(reader),
	}
}
