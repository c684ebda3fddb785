package fuzzy

import (
	"math"
	"sync"
	"testing"
)

func TestEvaluateHighServiceCheapPrice(t *testing.T) {
	ev := DefaultEngine.Evaluate(90, 25000)

	if ev.Service != (ServiceDegrees{ServiceHigh: 1}) {
		t.Errorf("service degrees = %v", ev.Service)
	}
	if ev.Price != (PriceDegrees{PriceCheap: 1}) {
		t.Errorf("price degrees = %v", ev.Price)
	}
	if ev.Output != (OutputDegrees{Good: 1}) {
		t.Errorf("output degrees = %v", ev.Output)
	}
	if math.Abs(ev.Score-65) > 1e-9 {
		t.Errorf("score = %v, want 65", ev.Score)
	}
}

func TestEvaluateLowServiceExpensivePrice(t *testing.T) {
	ev := DefaultEngine.Evaluate(20, 60000)

	if ev.Output != (OutputDegrees{Poor: 1}) {
		t.Errorf("output degrees = %v", ev.Output)
	}
	if ev.Score < 16 || ev.Score > 20 {
		t.Errorf("score = %v, want within [16,20]", ev.Score)
	}
	if math.Abs(ev.Score-49.0/3) > 1e-9 {
		t.Errorf("score = %v, want %v", ev.Score, 49.0/3)
	}
}

func TestEvaluateMidRange(t *testing.T) {
	ev := DefaultEngine.Evaluate(55, 35000)

	fired := 0
	for _, f := range Fire(ev.Service, ev.Price) {
		if f.Strength > 0 {
			fired++
		}
	}
	if fired < 2 {
		t.Errorf("expected several rules to fire, got %d", fired)
	}

	area := 0.0
	for _, s := range DefaultEngine.Aggregate(ev) {
		area += s.Degree
	}
	if area <= 0 {
		t.Fatal("aggregated set has no area")
	}

	poor := Defuzzify(OutputDegrees{Poor: 1})
	veryGood := Defuzzify(OutputDegrees{VeryGood: 1})
	if !(ev.Score > poor && ev.Score < veryGood) {
		t.Errorf("score %v not strictly between %v and %v", ev.Score, poor, veryGood)
	}
	if math.Abs(ev.Score-45) > 1e-9 {
		t.Errorf("score = %v, want 45", ev.Score)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	inputs := [][2]float64{{90, 25000}, {20, 60000}, {55, 35000}, {70, 40000}, {40, 32000}}
	for _, in := range inputs {
		a := DefaultEngine.Evaluate(in[0], in[1])
		b := DefaultEngine.Evaluate(in[0], in[1])
		if a != b || math.Float64bits(a.Score) != math.Float64bits(b.Score) {
			t.Errorf("Evaluate(%v) not repeatable: %v vs %v", in, a, b)
		}
	}
}

func TestEvaluateConcurrently(t *testing.T) {
	want := DefaultEngine.Score(85, 45000)

	var wg sync.WaitGroup
	errs := make(chan float64, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := DefaultEngine.Score(85, 45000); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent score %v != %v", got, want)
	}
}
