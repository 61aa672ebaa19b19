package page

import (
	"context"

	"storefront_e2e/application/facade"
	"storefront_e2e/domain/entities"
)

// Common query shapes. Indexed variants read the "index" argument.

func TextOf(locatorName string) QueryFunc {
	return func(ctx context.Context, r facade.Reader, _ Args) (any, error) {
		return r.Text(ctx, entities.Named(locatorName).First())
	}
}

func TextAt(locatorName string) QueryFunc {
	return func(ctx context.Context, r facade.Reader, args Args) (any, error) {
		i, err := args.Index("index")
		if err != nil {
			return nil, err
		}
		return r.Text(ctx, entities.Named(locatorName).Nth(i))
	}
}

func ValueAt(locatorName string) QueryFunc {
	return func(ctx context.Context, r facade.Reader, args Args) (any, error) {
		i, err := args.Index("index")
		if err != nil {
			return nil, err
		}
		return r.Value(ctx, entities.Named(locatorName).Nth(i))
	}
}

func VisibleOf(locatorName string) QueryFunc {
	return func(ctx context.Context, r facade.Reader, _ Args) (any, error) {
		return r.IsVisible(ctx, entities.Named(locatorName).First())
	}
}

func CheckedOf(locatorName string) QueryFunc {
	return func(ctx context.Context, r facade.Reader, _ Args) (any, error) {
		return r.IsChecked(ctx, entities.Named(locatorName).First())
	}
}

func CountOf(locatorName string) QueryFunc {
	return func(ctx context.Context, r facade.Reader, _ Args) (any, error) {
		return r.Count(ctx, entities.Named(locatorName))
	}
}

func Title() QueryFunc {
	return func(ctx context.Context, r facade.Reader, _ Args) (any, error) {
		return r.Title(ctx)
	}
}

func URL() QueryFunc {
	return func(ctx context.Context, r facade.Reader, _ Args) (any, error) {
		return r.URL(ctx)
	}
}

// ClickOn is an action that clicks the first match of a locator
func ClickOn(locatorName string) ActionFunc {
	return func(Args) ([]entities.Step, error) {
		return []entities.Step{entities.Click(entities.Named(locatorName).First())}, nil
	}
}

// ClickAt clicks the "index"-th match of a locator
func ClickAt(locatorName string) ActionFunc {
	return func(args Args) ([]entities.Step, error) {
		i, err := args.Index("index")
		if err != nil {
			return nil, err
		}
		return []entities.Step{entities.Click(entities.Named(locatorName).Nth(i))}, nil
	}
}

// CheckedAt reads the checked state of the "index"-th match
func CheckedAt(locatorName string) QueryFunc {
	return func(ctx context.Context, r facade.Reader, args Args) (any, error) {
		i, err := args.Index("index")
		if err != nil {
			return nil, err
		}
		return r.IsChecked(ctx, entities.Named(locatorName).Nth(i))
	}
}

// VisibleWithText reports whether a match containing the "text" argument is visible
func VisibleWithText(locatorName string) QueryFunc {
	return func(ctx context.Context, r facade.Reader, args Args) (any, error) {
		text, err := args.Require("text")
		if err != nil {
			return nil, err
		}
		return r.IsVisible(ctx, entities.Named(locatorName).WithText(text).First())
	}
}

// ClickWithText clicks the first match containing the "text" argument
func ClickWithText(locatorName string) ActionFunc {
	return func(args Args) ([]entities.Step, error) {
		text, err := args.Require("text")
		if err != nil {
			return nil, err
		}
		return []entities.Step{entities.Click(entities.Named(locatorName).WithText(text).First())}, nil
	}
}
