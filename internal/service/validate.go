package service

import (
	"context"
	"reflect"
	"strings"

	perrors "github.com/abgdnv/onlineshop/internal/errors"
	"github.com/go-playground/validator/v10"
)

type creatingKey struct{}

// newValidator reports fields by their JSON name and registers the cross-field rules of the requests.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidationCtx(saveProductRules, SaveProductRequest{})
	v.RegisterStructValidation(priceRangeRule, GetProductsRequest{})
	return v
}

// saveProductRules requires the mandatory fields when the request creates a product.
func saveProductRules(ctx context.Context, sl validator.StructLevel) {
	if creating, _ := ctx.Value(creatingKey{}).(bool); !creating {
		return
	}
	req := sl.Current().Interface().(SaveProductRequest)
	if req.Name == nil {
		sl.ReportError(req.Name, "name", "Name", "required", "")
	}
	if req.Price == nil {
		sl.ReportError(req.Price, "price", "Price", "required", "")
	}
	if req.Quantity == nil {
		sl.ReportError(req.Quantity, "quantity", "Quantity", "required", "")
	}
}

func priceRangeRule(sl validator.StructLevel) {
	req := sl.Current().Interface().(GetProductsRequest)
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		sl.ReportError(req.MaxPrice, "maxPrice", "MaxPrice", "gtefield", "minPrice")
	}
}

func validateCreate(ctx context.Context, v *validator.Validate, req SaveProductRequest) error {
	return validateStruct(context.WithValue(ctx, creatingKey{}, true), v, req)
}

func validateStruct(ctx context.Context, v *validator.Validate, s any) error {
	if err := v.StructCtx(ctx, s); err != nil {
		return perrors.NewValidationError(err)
	}
	return nil
}
