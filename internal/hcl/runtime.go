package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/stridegen/internal/config"
	"github.com/specialistvlad/stridegen/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// runtimeFields maps attribute names in a `runtime` block to the Go value
// they populate.
func runtimeFields(r *config.Runtime) map[string]any {
	return map[string]any{
		"sample_rate":      &r.SampleRate,
		"block_size":       &r.BlockSize,
		"num_out_channels": &r.NumOutChannels,
		"num_in_channels":  &r.NumInChannels,
		"audio_device":     &r.AudioDevice,
	}
}

// decodeRuntime evaluates each attribute of a runtime block and writes it
// over the current value. Attributes that are not set keep their value.
func decodeRuntime(ctx context.Context, body hcl.Body, evalCtx *hcl.EvalContext, r *config.Runtime) error {
	logger := ctxlog.FromContext(ctx)

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}

	fields := runtimeFields(r)
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		target, ok := fields[name]
		if !ok {
			return fmt.Errorf("unsupported runtime attribute %q", name)
		}
		val, diags := attrs[name].Expr.Value(evalCtx)
		if diags.HasErrors() {
			return diags
		}
		if err := decodeNumber(val, target); err != nil {
			return fmt.Errorf("failed to decode runtime attribute '%s': %w", name, err)
		}
		logger.Debug("Runtime value set from platform definition.", "attribute", name, "value", val.GoString())
	}
	return nil
}

// decodeNumber converts val to a number and stores it in the pointer goVal.
func decodeNumber(val cty.Value, goVal any) error {
	if val.IsNull() || !val.IsKnown() {
		return fmt.Errorf("value must be a known, non-null number")
	}

	converted, err := convert.Convert(val, cty.Number)
	if err != nil {
		return fmt.Errorf("cannot convert %s to number: %w", val.Type().FriendlyName(), err)
	}

	return gocty.FromCtyValue(converted, goVal)
}
