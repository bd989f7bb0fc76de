package service

import (
	"context"

	"github.com/asc-rental-marketplace/internal/domain/purchase"
)

// PackageServiceImpl serves the catalog through whatever PackageRepository it is given,
// normally the two-level cache in front of PostgreSQL.
type PackageServiceImpl struct {
	packages purchase.PackageRepository
}

func NewPackageService(packages purchase.PackageRepository) PackageService {
	return &PackageServiceImpl{packages: packages}
}

func (s *PackageServiceImpl) List(ctx context.Context) ([]*purchase.Package, error) {
	packages, err := s.packages.List(ctx)
	if err != nil {
		return nil, err
	}
	if packages == nil {
		packages = []*purchase.Package{}
	}
	return packages, nil
}

func (s *PackageServiceImpl) Get(ctx context.Context, id string) (*purchase.Package, error) {
	return s.packages.GetByID(ctx, id)
}
