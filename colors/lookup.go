package colors

import (
	"fmt"

	fractal "github.com/marben/fractal_gif"
)

// Names lists the colour algorithms selectable by name.
var Names = []string{"simple", "black_and_white", "hue_range", "hue_cyclic"}

// Options carries the optional hue parameters; nil fields keep the defaults.
type Options struct {
	StartDegree *int
	EndDegree   *int
	StepShift   *int
	ColorCount  *int
}

// Defaults of the hue algorithms.
const (
	DefaultEndDegree  = 240
	DefaultStepShift  = 30
	DefaultColorCount = 12
)

// New builds the colour algorithm called name.
func New(name string, o Options) (fractal.ColorAlgorithm, error) {
	switch name {
	case "simple":
		return Simple{}, nil
	case "black_and_white":
		return BlackAndWhite{}, nil
	case "hue_range":
		h := HueRange{EndDegree: DefaultEndDegree}
		if o.StartDegree != nil {
			h.StartDegree = *o.StartDegree
		}
		if o.EndDegree != nil {
			h.EndDegree = *o.EndDegree
		}
		return h, nil
	case "hue_cyclic":
		h := HueCyclic{ColorStepShift: DefaultStepShift, ColorCount: DefaultColorCount}
		if o.StartDegree != nil {
			h.StartDegree = *o.StartDegree
		}
		if o.StepShift != nil {
			h.ColorStepShift = *o.StepShift
		}
		if o.ColorCount != nil {
			h.ColorCount = *o.ColorCount
		}
		if err := h.Validate(); err != nil {
			return nil, err
		}
		return h, nil
	}
	return nil, fmt.Errorf("%w: unsupported color algorithm %q", fractal.ErrConfiguration, name)
}
