package hcl_adapter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/vkrecipe/internal/config"
	"github.com/specialistvlad/vkrecipe/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// isExprDefined checks if an HCL expression was actually present in the
// source. The decoder populates omitted optional expression fields with
// zero-width placeholder expressions, so a nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// boolFromExpr evaluates an expression without variables and converts the
// result to a Go bool. Strings such as "true" are accepted through cty's
// standard conversions; anything else is an error.
func boolFromExpr(expr hcl.Expression, what string) (bool, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return false, fmt.Errorf("invalid value for %s: %w", what, diags)
	}
	return ctyToBool(val, what)
}

func ctyToBool(val cty.Value, what string) (bool, error) {
	if val.IsNull() || !val.IsKnown() {
		return false, fmt.Errorf("value for %s must be a boolean, got null", what)
	}
	converted, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("value for %s must be a boolean, got %s", what, val.Type().FriendlyName())
	}
	var b bool
	if err := gocty.FromCtyValue(converted, &b); err != nil {
		return false, fmt.Errorf("value for %s: %w", what, err)
	}
	return b, nil
}

// optionsFromExpr decodes the `default_options` map. Keys use the
// `package:flag` form. Options are returned sorted by key so the model is
// deterministic regardless of map ordering.
func optionsFromExpr(expr hcl.Expression) ([]*config.BuildOption, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid default_options: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("default_options must be a map, got %s", val.Type().FriendlyName())
	}

	var opts []*config.BuildOption
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()

		pkg, flag, ok := strings.Cut(key, ":")
		if !ok || pkg == "" || flag == "" {
			return nil, fmt.Errorf("default_options key %q must have the form package:flag", key)
		}
		b, err := ctyToBool(v, fmt.Sprintf("option %q", key))
		if err != nil {
			return nil, err
		}
		opts = append(opts, &config.BuildOption{Package: pkg, Flag: flag, Value: b})
	}

	sort.Slice(opts, func(i, j int) bool { return opts[i].Key() < opts[j].Key() })
	return opts, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
