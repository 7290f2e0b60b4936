package catalog

import (
	"context"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
	"github.com/xiebiao/catalog/pkg/tracing"
)

// GetUseCase 按ID查询资源
type GetUseCase[D catalog.Document] struct {
	engine *catalog.ReadEngine[D]
}

// NewGetUseCase 创建用例
func NewGetUseCase[D catalog.Document](engine *catalog.ReadEngine[D]) *GetUseCase[D] {
	return &GetUseCase[D]{engine: engine}
}

// Execute 资源不存在（含ID格式错误）时返回40400
func (uc *GetUseCase[D]) Execute(ctx context.Context, id string) (D, error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "catalog."+uc.engine.Family().Name+".get")
	d, found, err := uc.engine.FindByID(ctx, id)
	tracing.EndSpan(span, err)

	if err != nil {
		return d, storageError(err)
	}
	if !found {
		return d, apperrors.Newf(apperrors.ErrCodeNotFound, "资源 %s 不存在", id)
	}
	return d, nil
}

// ListUseCase 按查询参数检索资源
type ListUseCase[D catalog.Document] struct {
	engine *catalog.ReadEngine[D]
}

// NewListUseCase 创建用例
func NewListUseCase[D catalog.Document](engine *catalog.ReadEngine[D]) *ListUseCase[D] {
	return &ListUseCase[D]{engine: engine}
}

// Execute 非法查询参数返回空列表而不是错误
func (uc *ListUseCase[D]) Execute(ctx context.Context, criteria map[string]string) ([]D, error) {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "catalog."+uc.engine.Family().Name+".list")
	docs, err := uc.engine.Find(ctx, criteria)
	tracing.EndSpan(span, err)

	if err != nil {
		return nil, storageError(err)
	}
	return docs, nil
}
