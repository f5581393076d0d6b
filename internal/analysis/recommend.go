package analysis

// Stance marks how strongly a recommendation is made.
type Stance string

const (
	StanceDo       Stance = "do"
	StanceConsider Stance = "consider"
	StanceAvoid    Stance = "avoid"
	StanceCaution  Stance = "caution"
)

// Advice is one line of modeling guidance.
type Advice struct {
	Stance Stance
	Text   string
}

// PolarityAdvice maps the polarity imbalance bracket to balancing strategies.
// Undefined ratios fall into the lowest bracket.
func PolarityAdvice(im Imbalance) []Advice {
	r := im.Ratio
	if !im.Defined {
		r = 1
	}
	switch {
	case r > 20:
		return []Advice{
			{StanceAvoid, "Avoid SMOTE on embeddings (very high-dimensional space)"},
			{StanceDo, "Focal loss (suited to extreme imbalance)"},
			{StanceDo, "Aggressive class weights"},
			{StanceDo, "Moderate undersampling of the majority classes (4-5)"},
			{StanceCaution, "Consider merging classes [1-2], [3], [4-5] if the business allows it"},
		}
	case r > 10:
		return []Advice{
			{StanceDo, "Class weights"},
			{StanceDo, "Focal loss or weighted cross-entropy"},
			{StanceConsider, "Moderate undersampling of the majority class"},
			{StanceAvoid, "SMOTE is not recommended on embeddings"},
		}
	case r > 5:
		return []Advice{
			{StanceDo, "Class weights (probably sufficient)"},
			{StanceConsider, "Focal loss if class weights fall short"},
		}
	default:
		return []Advice{
			{StanceDo, "Light class weights"},
			{StanceDo, "Or no technique at all (the model can learn the distribution as is)"},
		}
	}
}

// TypeAdvice maps the attraction type imbalance bracket to strategies.
func TypeAdvice(im Imbalance) []Advice {
	r := im.Ratio
	if !im.Defined {
		r = 1
	}
	switch {
	case r > 5:
		return []Advice{
			{StanceDo, "Class weights"},
			{StanceConsider, "Light undersampling"},
		}
	case r > 2:
		return []Advice{
			{StanceDo, "Class weights"},
		}
	default:
		return []Advice{
			{StanceDo, "No special balancing required"},
		}
	}
}

// ArchitectureNotes is the fixed guidance on model layout.
var ArchitectureNotes = []string{
	"Option 1 (recommended): multi-task learning, one model with two heads",
	"  - shares embeddings between tasks",
	"  - more efficient and may generalize better",
	"Option 2: two separate models",
	"  - simpler to implement and debug",
	"  - allows independent optimization",
}

// MetricNotes is the fixed guidance on evaluation metrics.
var MetricNotes = []string{
	"Polarity: macro F1, confusion matrix, per-class recall",
	"Type: macro or weighted F1 (depends on the importance of each class)",
}
