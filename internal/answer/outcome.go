package answer

// Outcome is the classified result of a lookup. It is one of DirectAnswer,
// Abstract, RelatedTopic or NoAnswer.
type Outcome interface {
	outcome()
}

// DirectAnswer is a short factual answer such as "4" or "1.8 meters"
type DirectAnswer struct {
	Text string
}

// Abstract is a prose paragraph describing the subject
type Abstract struct {
	Text   string
	URL    string
	Source string
}

// RelatedTopic is the first related-topic snippet, usually not a sentence
type RelatedTopic struct {
	Text string
	URL  string
}

// NoAnswer is a definite negative; callers must not retry it
type NoAnswer struct {
	Reason Reason
	Err    error // set for ReasonTransport
}

func (DirectAnswer) outcome() {}
func (Abstract) outcome()     {}
func (RelatedTopic) outcome() {}
func (NoAnswer) outcome()     {}

// Reason explains a NoAnswer outcome
type Reason string

const (
	ReasonEmptyQuery   Reason = "empty_query"
	ReasonTransport    Reason = "transport_failure"
	ReasonUnresolved   Reason = "disambiguation_unresolved"
	ReasonNothingFound Reason = "nothing_found"
)

// Kind returns a short name for the outcome variant, used in logs and reports
func Kind(o Outcome) string {
	switch o.(type) {
	case DirectAnswer:
		return "answer"
	case Abstract:
		return "abstract"
	case RelatedTopic:
		return "related"
	case NoAnswer:
		return "none"
	}
	return "unknown"
}
