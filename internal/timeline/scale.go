package timeline

import (
	"sched-visualizer/internal/core"
)

// MaxTicks bounds the number of divisions of a scale.
const MaxTicks = 10

// Scale returns evenly spaced ticks from minTime to maxTime. maxTime is
// always the last tick even when it does not fall on a step boundary.
func Scale(minTime, maxTime int) ([]int, error) {
	if maxTime < minTime {
		return nil, core.NewError(core.DegenerateRange, "scale end %d is before start %d", maxTime, minTime)
	}
	if minTime == maxTime {
		return []int{minTime}, nil
	}

	// Unsigned arithmetic keeps the span and every offset exact even when
	// the range is wider than math.MaxInt.
	span := uint(maxTime) - uint(minTime)
	step := span / MaxTicks
	if span%MaxTicks != 0 {
		step++
	}

	ticks := make([]int, 0, MaxTicks+1)
	for i := uint(0); ; i++ {
		offset := i * step
		ticks = append(ticks, int(uint(minTime)+offset))
		if span-offset < step {
			break
		}
	}
	if ticks[len(ticks)-1] != maxTime {
		ticks = append(ticks, maxTime)
	}
	return ticks, nil
}
