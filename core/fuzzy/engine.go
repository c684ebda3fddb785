package fuzzy

// Evaluation is the full trace of one pipeline run
type Evaluation struct {
	Service ServiceDegrees `json:"service"`
	Price   PriceDegrees   `json:"price"`
	Output  OutputDegrees  `json:"output"`
	Score   float64        `json:"score"`
}

// Engine runs fuzzify -> infer -> defuzzify for one record
type Engine struct {
	defuzzifier *Defuzzifier
}

// NewEngine creates an engine sampling the output over d
func NewEngine(d Domain) *Engine {
	return &Engine{defuzzifier: NewDefuzzifier(d)}
}

// DefaultEngine samples the output over DefaultDomain
var DefaultEngine = NewEngine(DefaultDomain)

// Domain returns the output domain the engine samples
func (e *Engine) Domain() Domain {
	return e.defuzzifier.Domain()
}

// Evaluate scores one (service, price) pair and keeps every intermediate step
func (e *Engine) Evaluate(service, price float64) Evaluation {
	s := FuzzifyService(service)
	p := FuzzifyPrice(price)
	o := Infer(s, p)
	return Evaluation{
		Service: s,
		Price:   p,
		Output:  o,
		Score:   e.defuzzifier.Defuzzify(o),
	}
}

// Score returns only the suitability score
func (e *Engine) Score(service, price float64) float64 {
	return e.Evaluate(service, price).Score
}

// Aggregate exposes the aggregated output set of an evaluation
func (e *Engine) Aggregate(ev Evaluation) []Sample {
	return e.defuzzifier.Aggregate(ev.Output)
}
