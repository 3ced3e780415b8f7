package interp

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"
)

// ErrUnknownEasing is returned by Lookup for names that are not registered.
var ErrUnknownEasing = errors.New("unknown easing")

var named = map[string]Func{
	"linear":       Linear,
	"accelerating": Accelerating,
	"decelerating": Decelerating,

	"in-quad":        Func(ease.InQuad),
	"out-quad":       Func(ease.OutQuad),
	"in-out-quad":    Func(ease.InOutQuad),
	"in-cubic":       Func(ease.InCubic),
	"out-cubic":      Func(ease.OutCubic),
	"in-out-cubic":   Func(ease.InOutCubic),
	"in-quart":       Func(ease.InQuart),
	"out-quart":      Func(ease.OutQuart),
	"in-out-quart":   Func(ease.InOutQuart),
	"in-quint":       Func(ease.InQuint),
	"out-quint":      Func(ease.OutQuint),
	"in-out-quint":   Func(ease.InOutQuint),
	"in-sine":        Func(ease.InSine),
	"out-sine":       Func(ease.OutSine),
	"in-out-sine":    Func(ease.InOutSine),
	"in-expo":        Func(ease.InExpo),
	"out-expo":       Func(ease.OutExpo),
	"in-out-expo":    Func(ease.InOutExpo),
	"in-circ":        Func(ease.InCirc),
	"out-circ":       Func(ease.OutCirc),
	"in-out-circ":    Func(ease.InOutCirc),
	"in-elastic":     Func(ease.InElastic),
	"out-elastic":    Func(ease.OutElastic),
	"in-out-elastic": Func(ease.InOutElastic),
	"in-back":        Func(ease.InBack),
	"out-back":       Func(ease.OutBack),
	"in-out-back":    Func(ease.InOutBack),
	"in-bounce":      Func(ease.InBounce),
	"out-bounce":     Func(ease.OutBounce),
	"in-out-bounce":  Func(ease.InOutBounce),
}

// Lookup finds an interpolator by name. Names are case-insensitive and
// underscores are accepted in place of hyphens. An empty name is Linear.
func Lookup(name string) (Func, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if key == "" {
		return Linear, nil
	}

	f, ok := named[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, name)
	}
	return f, nil
}

// Names lists every registered interpolator name in sorted order.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
