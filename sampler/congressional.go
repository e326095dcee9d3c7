package sampler

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/VividCortex/ewma"

	"uowmetrics/entry"
	appErrors "uowmetrics/pkg/errors"
)

// Congressional splits a target aggregate rate fairly across observed
// sample-group keys, so rare keys retain proportionally higher acceptance
// than common ones.
//
// Each key's observed rate r_k is a time-windowed exponentially weighted
// average of its own inter-arrival rate (1/deltaT between consecutive
// entries for that key), tracked with github.com/VividCortex/ewma rather
// than a hand-rolled moving average. Per-key acceptance probability is
// p_k = min(1, R_k/r_k), where R_k is this key's fair share of TargetRate.
type Congressional struct {
	TargetRate float64 // entries/second, aggregate across all keys
	KeyFields  KeyFields
	// Weight returns the fairness weight for a key; nil means uniform (1).
	Weight func(key string) float64

	mu       sync.Mutex
	observed map[string]ewma.MovingAverage
	lastSeen map[string]time.Time
	rand     *rand.Rand
	now      func() time.Time
}

func NewCongressional(targetRate float64, keyFields KeyFields) *Congressional {
	if targetRate <= 0 {
		panic(appErrors.SamplerError("NewCongressional", fmt.Sprintf("target rate must be positive, got %v", targetRate)))
	}
	return &Congressional{
		TargetRate: targetRate,
		KeyFields:  keyFields,
		observed:   make(map[string]ewma.MovingAverage),
		lastSeen:   make(map[string]time.Time),
	}
}

func (c *Congressional) Sample(root *entry.RootEntry) Decision {
	key := c.KeyFields.extract(root)
	now := c.clock()

	c.mu.Lock()
	avg, ok := c.observed[key]
	if !ok {
		avg = ewma.NewMovingAverage()
		c.observed[key] = avg
	}
	if last, seen := c.lastSeen[key]; seen {
		if deltaT := now.Sub(last).Seconds(); deltaT > 0 {
			avg.Add(1 / deltaT)
		}
	}
	c.lastSeen[key] = now
	rK := avg.Value()

	numKeys := len(c.observed)
	totalWeight := 0.0
	myWeight := c.weightFor(key)
	for k := range c.observed {
		totalWeight += c.weightFor(k)
	}
	if totalWeight <= 0 {
		totalWeight = float64(numKeys)
	}
	c.mu.Unlock()

	if rK <= 0 {
		// No inter-arrival observation yet for this key: admit it rather
		// than starving a brand-new key before its rate is known.
		return Decision{Keep: true, Multiplicity: 1}
	}

	share := myWeight / totalWeight
	rateForKey := c.TargetRate * share
	p := rateForKey / rK
	if p > 1 {
		p = 1
	}
	if p <= 0 {
		return Decision{Keep: false}
	}

	if c.float64() < p {
		return Decision{Keep: true, Multiplicity: 1 / p}
	}
	return Decision{Keep: false}
}

func (c *Congressional) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *Congressional) weightFor(key string) float64 {
	if c.Weight == nil {
		return 1
	}
	w := c.Weight(key)
	if w <= 0 || math.IsNaN(w) {
		return 1
	}
	return w
}

func (c *Congressional) float64() float64 {
	if c.rand != nil {
		return c.rand.Float64()
	}
	return rand.Float64()
}
