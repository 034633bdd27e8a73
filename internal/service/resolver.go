package service

import (
	"context"

	"tcms/internal/dto"
	"tcms/internal/model"
	"tcms/internal/repository"
	pkgErrors "tcms/pkg/errors"
)

// Resolver 把 RPC 传入的标识解析为唯一实体, 查不到时返回带实体名的 NotFound
type Resolver interface {
	Product(ctx context.Context, ref dto.ProductRef) (*model.Product, error)
	Build(ctx context.Context, id int64) (*model.Build, error)
	BuildByName(ctx context.Context, name string, ref dto.ProductRef) (*model.Build, error)
}

type resolver struct {
	productRepo repository.ProductRepository
	buildRepo   repository.BuildRepository
}

func NewResolver(productRepo repository.ProductRepository, buildRepo repository.BuildRepository) Resolver {
	return &resolver{
		productRepo: productRepo,
		buildRepo:   buildRepo,
	}
}

// Product 按ID或名称查找产品
func (r *resolver) Product(ctx context.Context, ref dto.ProductRef) (*model.Product, error) {
	if ref.ByName {
		if ref.Name == "" {
			return nil, pkgErrors.ErrEmptyProductName
		}
		return r.productRepo.FindByName(ctx, ref.Name)
	}
	return r.productRepo.FindByID(ctx, ref.ID)
}

func (r *resolver) Build(ctx context.Context, id int64) (*model.Build, error) {
	return r.buildRepo.FindByID(ctx, id)
}

// BuildByName 先解析产品, 产品不存在时报 Product 而不是 TestBuild
func (r *resolver) BuildByName(ctx context.Context, name string, ref dto.ProductRef) (*model.Build, error) {
	product, err := r.Product(ctx, ref)
	if err != nil {
		return nil, err
	}
	return r.buildRepo.FindByProductAndName(ctx, product.ID, name)
}
