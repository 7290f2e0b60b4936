package catalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	"github.com/xiebiao/catalog/pkg/metrics"
	"github.com/xiebiao/catalog/pkg/tracing"
)

// WriteResponse 写入成功后的资源ID与版本号
type WriteResponse struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

// CreateUseCase 创建资源用例
// 应用层只负责编排：调用引擎、映射结果、记录指标与链路
type CreateUseCase[D catalog.Document] struct {
	engine *catalog.WriteEngine[D]
}

// NewCreateUseCase 创建用例
func NewCreateUseCase[D catalog.Document](engine *catalog.WriteEngine[D]) *CreateUseCase[D] {
	return &CreateUseCase[D]{engine: engine}
}

// Execute 执行创建
func (uc *CreateUseCase[D]) Execute(ctx context.Context, d D) (resp *WriteResponse, err error) {
	family := uc.engine.Family().Name
	op := observe(ctx, family, "create")
	defer func() { op.finish(err) }()

	res, err := uc.engine.Create(op.ctx, d)
	if err != nil {
		op.outcome = "error"
		return nil, storageError(err)
	}

	op.outcome, err = createOutcome(res)
	if err != nil {
		return nil, err
	}
	created := res.(catalog.Created)
	op.id = created.ID
	return &WriteResponse{ID: created.ID, Version: created.Version}, nil
}

// UpdateRequest 更新请求
type UpdateRequest[D catalog.Document] struct {
	ID       string
	Document D
	// IfMatch 版本令牌，nil表示请求未携带
	IfMatch *string
}

// UpdateUseCase 更新资源用例
type UpdateUseCase[D catalog.Document] struct {
	engine *catalog.WriteEngine[D]
}

// NewUpdateUseCase 创建用例
func NewUpdateUseCase[D catalog.Document](engine *catalog.WriteEngine[D]) *UpdateUseCase[D] {
	return &UpdateUseCase[D]{engine: engine}
}

// Execute 执行更新
func (uc *UpdateUseCase[D]) Execute(ctx context.Context, req UpdateRequest[D]) (resp *WriteResponse, err error) {
	family := uc.engine.Family().Name
	op := observe(ctx, family, "update")
	op.id = req.ID
	defer func() { op.finish(err) }()

	res, err := uc.engine.Update(op.ctx, req.ID, req.Document, req.IfMatch)
	if err != nil {
		op.outcome = "error"
		return nil, storageError(err)
	}

	op.outcome, err = updateOutcome(res)
	if err != nil {
		return nil, err
	}
	updated := res.(catalog.Updated)
	return &WriteResponse{ID: updated.ID, Version: updated.Version}, nil
}

// DeleteUseCase 删除资源用例（幂等）
type DeleteUseCase[D catalog.Document] struct {
	engine *catalog.WriteEngine[D]
}

// NewDeleteUseCase 创建用例
func NewDeleteUseCase[D catalog.Document](engine *catalog.WriteEngine[D]) *DeleteUseCase[D] {
	return &DeleteUseCase[D]{engine: engine}
}

// Execute 执行删除，返回是否删除了资源
func (uc *DeleteUseCase[D]) Execute(ctx context.Context, id string) (deleted bool, err error) {
	op := observe(ctx, uc.engine.Family().Name, "delete")
	op.id = id
	defer func() { op.finish(err) }()

	deleted, err = uc.engine.Delete(op.ctx, id)
	if err != nil {
		op.outcome = "error"
		return false, storageError(err)
	}
	if deleted {
		op.outcome = "deleted"
	} else {
		op.outcome = "noop"
	}
	return deleted, nil
}

// operation 一次写操作的观测上下文（Span + 耗时）
type operation struct {
	ctx     context.Context
	span    trace.Span
	family  string
	name    string
	id      string
	outcome string
	start   time.Time
}

func observe(ctx context.Context, family, name string) *operation {
	ctx, span := tracing.StartSpan(ctx, tracing.TracerName, "catalog."+family+"."+name)
	return &operation{
		ctx:    ctx,
		span:   span,
		family: family,
		name:   name,
		start:  time.Now(),
	}
}

// finish 记录指标并结束Span，业务失败（校验、冲突）不算Span错误
func (o *operation) finish(err error) {
	o.span.SetAttributes(
		attribute.String("catalog.family", o.family),
		attribute.String("catalog.id", o.id),
		attribute.String("catalog.result", o.outcome),
	)
	metrics.RecordWrite(o.family, o.name, o.outcome, time.Since(o.start))

	if o.outcome != "error" {
		err = nil
	}
	tracing.EndSpan(o.span, err)
}
