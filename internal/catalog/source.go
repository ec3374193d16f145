package catalog

import "context"

// Source provides the taxonomy lists. *foodapi.Client satisfies it.
type Source interface {
	Restaurants(ctx context.Context) ([]string, error)
	FoodTypes(ctx context.Context) ([]string, error)
	ProteinTypes(ctx context.Context) ([]string, error)
}

// StaticSource serves fixed lists, for tests and local scenarios.
type StaticSource struct {
	Catalog Catalog
	Err     error
}

func (s StaticSource) Restaurants(context.Context) ([]string, error) {
	return s.Catalog.Restaurants, s.Err
}

func (s StaticSource) FoodTypes(context.Context) ([]string, error) {
	return s.Catalog.FoodTypes, s.Err
}

func (s StaticSource) ProteinTypes(context.Context) ([]string, error) {
	return s.Catalog.ProteinTypes, s.Err
}
