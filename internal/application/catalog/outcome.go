package catalog

import (
	"fmt"

	"github.com/xiebiao/catalog/internal/domain/catalog"
	apperrors "github.com/xiebiao/catalog/pkg/errors"
)

// 领域结果到AppError的映射
// 返回的outcome用作指标和Span的result标签

func createOutcome(res catalog.CreateResult) (string, error) {
	switch r := res.(type) {
	case catalog.Created:
		return "created", nil
	case catalog.Invalid:
		return "invalid", apperrors.WithDetails(apperrors.ErrCodeValidation, r.Messages)
	case catalog.KeyExists:
		return "key_exists", keyExists(r)
	case catalog.ExternalIDExists:
		return "external_id_exists", apperrors.Newf(apperrors.ErrCodeExternalIDExists, "外部编号 %s 已存在", r.ExternalID)
	default:
		return "error", apperrors.Wrap(fmt.Errorf("unexpected create result %T", res), "系统内部错误")
	}
}

func updateOutcome(res catalog.UpdateResult) (string, error) {
	switch r := res.(type) {
	case catalog.Updated:
		return "updated", nil
	case catalog.Invalid:
		return "invalid", apperrors.WithDetails(apperrors.ErrCodeValidation, r.Messages)
	case catalog.KeyExists:
		return "key_exists", keyExists(r)
	case catalog.NotExists:
		return "not_exists", apperrors.Newf(apperrors.ErrCodeNotFound, "资源 %s 不存在", r.ID)
	case catalog.VersionInvalid:
		return "version_invalid", apperrors.Newf(apperrors.ErrCodeVersionInvalid, "版本号格式错误: %s", r.Token)
	case catalog.VersionOutdated:
		return "version_outdated", apperrors.Newf(apperrors.ErrCodeVersionOutdated, "资源 %s 的版本 %d 已过期", r.ID, r.Version)
	case catalog.MissingPrecondition:
		return "missing_precondition", apperrors.ErrPreconditionRequired
	default:
		return "error", apperrors.Wrap(fmt.Errorf("unexpected update result %T", res), "系统内部错误")
	}
}

func keyExists(r catalog.KeyExists) error {
	return apperrors.Newf(apperrors.ErrCodeKeyExists, "%s 已存在", r.Key)
}

// storageError 基础设施故障统一包装为数据库错误
func storageError(err error) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "数据库错误")
}
